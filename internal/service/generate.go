package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"scrumlog/internal/logger"
	"scrumlog/internal/model"
	"scrumlog/internal/store"
)

// GenState is the orchestration state of one generation target.
type GenState string

const (
	StateIdle       GenState = "idle"
	StateGenerating GenState = "generating"
	StateSucceeded  GenState = "succeeded"
	StateFailed     GenState = "failed"
)

// Generator orchestrates scrum generation: it validates inputs before any
// external call, guards each target against duplicate in-flight requests,
// validates the completion response against a fixed schema, and only then
// mutates the scrum store. A schema violation is a failure, never a partial
// success.
type Generator struct {
	ai       Completer
	inflight sync.Map // target key -> struct{}
	states   sync.Map // target key -> GenState
}

func NewGenerator(ai Completer) *Generator {
	return &Generator{ai: ai}
}

// State reports the last observed orchestration state for a target.
func (g *Generator) State(key string) GenState {
	if v, ok := g.states.Load(key); ok {
		return v.(GenState)
	}
	return StateIdle
}

func ScrumTarget(userID int, date string) string {
	return fmt.Sprintf("scrum:%d:%s", userID, date)
}

func TeamTarget(date string) string {
	return "team:" + date
}

func WeeklyTarget(userID int, weekStart string) string {
	return fmt.Sprintf("weekly:%d:%s", userID, weekStart)
}

func (g *Generator) begin(key string) error {
	if _, loaded := g.inflight.LoadOrStore(key, struct{}{}); loaded {
		return fmt.Errorf("%w: %s", ErrGenerating, key)
	}
	g.states.Store(key, StateGenerating)
	return nil
}

func (g *Generator) finish(key string, err error) {
	g.inflight.Delete(key)
	if err != nil {
		g.states.Store(key, StateFailed)
	} else {
		g.states.Store(key, StateSucceeded)
	}
}

// GenerateScrum summarizes the prior calendar day's work log into a daily
// scrum for date and applies it to the session's scrum store. The empty-log
// check runs before the in-flight guard and before any external call, so a
// rejected request leaves the target idle.
func (g *Generator) GenerateScrum(ctx context.Context, sess *store.Session, date string, fmtKind model.ScrumFormat) (*model.DailyScrum, error) {
	prior, err := priorDate(date)
	if err != nil {
		return nil, err
	}

	log := sess.Worklogs.GetWorkLog(prior)
	if log == nil {
		if log, err = sess.Worklogs.FetchWorkLog(ctx, prior); err != nil {
			return nil, err
		}
	}
	if log == nil || len(log.Items) == 0 {
		return nil, store.Validationf("전날 워크로그가 없습니다")
	}

	key := ScrumTarget(sess.UserID, date)
	if err := g.begin(key); err != nil {
		return nil, err
	}
	var scrum *model.DailyScrum
	defer func() { g.finish(key, err) }()

	var sb strings.Builder
	for _, item := range log.Items {
		fmt.Fprintf(&sb, "- [%s/%s] %s\n", item.Tag, item.Status, item.Content)
	}

	system := "당신은 개발자의 워크로그를 데일리 스크럼 형식으로 요약하는 도우미입니다. " +
		"반드시 JSON 형식으로만 응답하세요. " +
		"yesterday(배열), today(배열), blocker(문자열) 키를 포함해야 합니다. " +
		"yesterday는 어제 완료한 작업, today는 오늘 진행할 작업, blocker는 방해 요소를 의미합니다. " +
		"blocker가 없으면 '없음'으로 작성하세요."
	user := "다음 작업 항목을 바탕으로 어제 한 일(yesterday), 오늘 할 일(today), 블로커(blocker)를 JSON 형식으로 작성해주세요.\n\n" + sb.String()

	raw, err := g.ai.Complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	draft, err := parseScrumDraft(raw)
	if err != nil {
		return nil, err
	}

	scrum, err = sess.Scrums.ApplyGenerated(ctx, date, *draft, fmtKind)
	if err != nil {
		return nil, err
	}
	logger.Info("scrum.generated", "uid", sess.UserID, "date", date, "items", len(log.Items))
	return scrum, nil
}

// Consolidate merges the selected members' scrums into one team-level draft.
// Saving the draft is the caller's decision; authorization is enforced at
// the handler boundary.
func (g *Generator) Consolidate(ctx context.Context, date string, scrums []model.DailyScrum) (_ *model.ScrumDraft, err error) {
	if len(scrums) == 0 {
		return nil, store.Validationf("스크럼 데이터가 없습니다")
	}

	key := TeamTarget(date)
	if err := g.begin(key); err != nil {
		return nil, err
	}
	defer func() { g.finish(key, err) }()

	var sb strings.Builder
	for i, s := range scrums {
		yesterday := joinOrNone(s.Yesterday)
		today := joinOrNone(s.Today)
		blocker := s.Blocker
		if blocker == "" {
			blocker = "없음"
		}
		fmt.Fprintf(&sb, "[팀원 %d]\n어제: %s\n오늘: %s\n블로커: %s\n\n", i+1, yesterday, today, blocker)
	}

	system := "당신은 여러 팀원의 데일리 스크럼을 통합하여 팀 스크럼 보고서를 작성하는 도우미입니다.\n" +
		"반드시 JSON 형식으로만 응답하세요.\n" +
		"yesterday(배열), today(배열), blocker(문자열) 키를 포함해야 합니다.\n\n" +
		"작성 규칙:\n" +
		"- 중복 내용은 하나로 통합하세요\n" +
		"- 각 항목은 팀 전체의 관점에서 서술하세요\n" +
		"- blocker: 팀 전체의 블로킹 이슈, 없으면 \"없음\"\n" +
		"- 각 항목은 완성된 한 문장으로 서술하세요"
	user := fmt.Sprintf("다음 %d명의 팀원 스크럼을 통합하여 팀 데일리 스크럼 보고서를 작성해주세요.\n\n%s", len(scrums), sb.String())

	raw, err := g.ai.Complete(ctx, system, user)
	if err != nil {
		return nil, err
	}
	return parseScrumDraft(raw)
}

// GenerateWeekly turns one week of daily scrums into a weekly review draft.
func (g *Generator) GenerateWeekly(ctx context.Context, userID int, weekStart, weekEnd string, scrums []model.DailyScrum) (_ *model.WeeklyDraft, err error) {
	if len(scrums) == 0 {
		return nil, store.Validationf("이번 주 스크럼 데이터가 없습니다")
	}

	key := WeeklyTarget(userID, weekStart)
	if err := g.begin(key); err != nil {
		return nil, err
	}
	defer func() { g.finish(key, err) }()

	var sb strings.Builder
	for _, s := range scrums {
		blocker := s.Blocker
		if blocker == "" {
			blocker = "없음"
		}
		fmt.Fprintf(&sb, "[%s]\n작업: %s\n블로커: %s\n\n", s.Date, joinOrNone(s.Yesterday), blocker)
	}

	system := "당신은 개발자의 주간 업무를 분석하여 주간 회고 보고서를 작성하는 도우미입니다.\n" +
		"반드시 JSON 형식으로만 응답하세요.\n" +
		"summary(주간 성과 요약, 배열), highlights(주요 하이라이트, 배열), " +
		"improvements(개선 사항, 배열), nextWeekGoals(다음 주 목표, 배열) 키를 포함해야 합니다.\n\n" +
		"작성 규칙:\n" +
		"- summary: 이번 주에 완료한 주요 작업 목록 (3-5개)\n" +
		"- highlights: 특히 잘 된 점이나 성과 (2-3개)\n" +
		"- improvements: 다음에 개선할 사항 (2-3개)\n" +
		"- nextWeekGoals: 다음 주 목표 및 계획 (3-5개)\n" +
		"- 각 항목은 완성된 한 문장으로 서술하세요"
	user := fmt.Sprintf("%s ~ %s 주간 데일리 스크럼 기록을 바탕으로 주간 회고 보고서를 작성해주세요.\n\n%s", weekStart, weekEnd, sb.String())

	raw, err := g.ai.Complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Summary       *[]string `json:"summary"`
		Highlights    *[]string `json:"highlights"`
		Improvements  *[]string `json:"improvements"`
		NextWeekGoals *[]string `json:"nextWeekGoals"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, externalErr("weekly response schema", err)
	}
	if parsed.Summary == nil || parsed.Highlights == nil || parsed.Improvements == nil || parsed.NextWeekGoals == nil {
		return nil, externalErrf("weekly response missing required keys")
	}
	return &model.WeeklyDraft{
		Summary:       *parsed.Summary,
		Highlights:    *parsed.Highlights,
		Improvements:  *parsed.Improvements,
		NextWeekGoals: *parsed.NextWeekGoals,
	}, nil
}

// parseScrumDraft validates the fixed daily-scrum response schema. Missing
// keys and wrong types both fail.
func parseScrumDraft(raw string) (*model.ScrumDraft, error) {
	var parsed struct {
		Yesterday *[]string `json:"yesterday"`
		Today     *[]string `json:"today"`
		Blocker   *string   `json:"blocker"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, externalErr("scrum response schema", err)
	}
	if parsed.Yesterday == nil || parsed.Today == nil || parsed.Blocker == nil {
		return nil, externalErrf("scrum response missing required keys")
	}
	blocker := strings.TrimSpace(*parsed.Blocker)
	if blocker == "" {
		blocker = "없음"
	}
	return &model.ScrumDraft{
		Yesterday: *parsed.Yesterday,
		Today:     *parsed.Today,
		Blocker:   blocker,
	}, nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "없음"
	}
	return strings.Join(items, ", ")
}

func priorDate(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", store.Validationf("날짜 형식이 올바르지 않습니다: %s", date)
	}
	return t.AddDate(0, 0, -1).Format("2006-01-02"), nil
}
