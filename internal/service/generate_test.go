package service

import (
	"context"
	"sync/atomic"
	"testing"

	"scrumlog/internal/model"
	"scrumlog/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter returns a canned response and counts calls; an optional gate
// holds the call open so in-flight behavior can be observed.
type fakeCompleter struct {
	response string
	err      error
	calls    atomic.Int32
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls.Add(1)
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	return f.response, f.err
}

func sessionWithWorklog(t *testing.T, date string, contents ...string) *store.Session {
	t.Helper()
	sess := store.NewSession(store.NewMemoryBackend(1), 1)
	for _, content := range contents {
		_, err := sess.Worklogs.AddWorkItem(context.Background(), date, content, model.TagFeature, model.StatusDone)
		require.NoError(t, err)
	}
	return sess
}

func TestGenerateScrumAppliesDraft(t *testing.T) {
	sess := sessionWithWorklog(t, "2025-06-02", "로그인 API 구현", "코드 리뷰")
	ai := &fakeCompleter{response: `{"yesterday":["로그인 API 구현 완료"],"today":["테스트 작성"],"blocker":"없음"}`}
	g := NewGenerator(ai)

	scrum, err := g.GenerateScrum(context.Background(), sess, "2025-06-03", model.FormatChat)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-03", scrum.Date)
	assert.Equal(t, model.StringList{"로그인 API 구현 완료"}, scrum.Yesterday)
	assert.Equal(t, model.StringList{"테스트 작성"}, scrum.Today)
	assert.NotEmpty(t, scrum.ShareID)
	assert.Equal(t, StateSucceeded, g.State(ScrumTarget(1, "2025-06-03")))
	assert.Equal(t, int32(1), ai.calls.Load())
}

func TestGenerateScrumRejectsEmptyPriorDay(t *testing.T) {
	// No work log on 2025-06-02: the request fails before any external call
	// and the target stays idle.
	sess := sessionWithWorklog(t, "2025-06-01", "무관한 날짜")
	ai := &fakeCompleter{response: `{}`}
	g := NewGenerator(ai)

	_, err := g.GenerateScrum(context.Background(), sess, "2025-06-03", model.FormatChat)
	assert.ErrorIs(t, err, store.ErrValidation)
	assert.Equal(t, StateIdle, g.State(ScrumTarget(1, "2025-06-03")))
	assert.Equal(t, int32(0), ai.calls.Load())
	assert.Nil(t, sess.Scrums.GetScrum("2025-06-03"))
}

func TestGenerateScrumSchemaViolationIsFailure(t *testing.T) {
	sess := sessionWithWorklog(t, "2025-06-02", "작업")
	g := NewGenerator(&fakeCompleter{response: `{"yesterday":["있음"],"today":["있음"]}`})

	_, err := g.GenerateScrum(context.Background(), sess, "2025-06-03", model.FormatChat)
	assert.ErrorIs(t, err, ErrExternal)
	assert.Equal(t, StateFailed, g.State(ScrumTarget(1, "2025-06-03")))
	// No partial apply.
	assert.Nil(t, sess.Scrums.GetScrum("2025-06-03"))
}

func TestGenerateScrumEmptyBlockerDefaults(t *testing.T) {
	sess := sessionWithWorklog(t, "2025-06-02", "작업")
	g := NewGenerator(&fakeCompleter{response: `{"yesterday":[],"today":[],"blocker":"  "}`})

	scrum, err := g.GenerateScrum(context.Background(), sess, "2025-06-03", model.FormatChat)
	require.NoError(t, err)
	assert.Equal(t, "없음", scrum.Blocker)
}

func TestGenerateScrumDuplicateInFlight(t *testing.T) {
	sess := sessionWithWorklog(t, "2025-06-02", "작업")
	ai := &fakeCompleter{
		response: `{"yesterday":[],"today":[],"blocker":"없음"}`,
		started:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	g := NewGenerator(ai)

	done := make(chan error, 1)
	go func() {
		_, err := g.GenerateScrum(context.Background(), sess, "2025-06-03", model.FormatChat)
		done <- err
	}()
	<-ai.started

	_, err := g.GenerateScrum(context.Background(), sess, "2025-06-03", model.FormatChat)
	assert.ErrorIs(t, err, ErrGenerating)

	close(ai.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateSucceeded, g.State(ScrumTarget(1, "2025-06-03")))
}

func TestConsolidate(t *testing.T) {
	g := NewGenerator(&fakeCompleter{
		response: `{"yesterday":["팀: API 개발"],"today":["팀: 배포"],"blocker":"없음"}`,
	})
	scrums := []model.DailyScrum{
		{Date: "2025-06-03", Yesterday: model.StringList{"A"}, Today: model.StringList{"B"}},
		{Date: "2025-06-03", Yesterday: model.StringList{"C"}, Blocker: "리뷰 지연"},
	}

	draft, err := g.Consolidate(context.Background(), "2025-06-03", scrums)
	require.NoError(t, err)
	assert.Equal(t, []string{"팀: API 개발"}, draft.Yesterday)

	_, err = g.Consolidate(context.Background(), "2025-06-04", nil)
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestGenerateWeekly(t *testing.T) {
	g := NewGenerator(&fakeCompleter{
		response: `{"summary":["주요 작업 완료"],"highlights":["배포 성공"],"improvements":["리뷰 속도"],"nextWeekGoals":["모니터링 구축"]}`,
	})
	scrums := []model.DailyScrum{
		{Date: "2025-06-02", Yesterday: model.StringList{"A"}},
	}

	draft, err := g.GenerateWeekly(context.Background(), 1, "2025-06-02", "2025-06-08", scrums)
	require.NoError(t, err)
	assert.Equal(t, []string{"주요 작업 완료"}, draft.Summary)
	assert.Equal(t, []string{"모니터링 구축"}, draft.NextWeekGoals)

	_, err = g.GenerateWeekly(context.Background(), 1, "2025-06-09", "2025-06-15", nil)
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestGenerateWeeklyMissingKeys(t *testing.T) {
	g := NewGenerator(&fakeCompleter{response: `{"summary":["완료"]}`})
	scrums := []model.DailyScrum{{Date: "2025-06-02"}}

	_, err := g.GenerateWeekly(context.Background(), 1, "2025-06-02", "2025-06-08", scrums)
	assert.ErrorIs(t, err, ErrExternal)
}
