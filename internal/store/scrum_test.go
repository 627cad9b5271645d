package store

import (
	"context"
	"testing"

	"scrumlog/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveScrum(t *testing.T, s *ScrumStore, date string, fields ScrumFields) *model.DailyScrum {
	t.Helper()
	scrum, err := s.SaveScrum(context.Background(), date, fields)
	require.NoError(t, err)
	return scrum
}

func TestSaveScrumMintsShareID(t *testing.T) {
	sess := newTestSession(t)
	scrum := saveScrum(t, sess.Scrums, "2025-06-02", ScrumFields{
		Yesterday: []string{"API 구현"},
		Today:     []string{"테스트 작성"},
		Blocker:   "없음",
		Format:    model.FormatChat,
	})

	assert.Len(t, scrum.ShareID, 8)
	assert.NotZero(t, scrum.ID)
}

func TestSaveScrumPreservesIdentityOnResave(t *testing.T) {
	sess := newTestSession(t)
	date := "2025-06-02"

	first := saveScrum(t, sess.Scrums, date, ScrumFields{
		Yesterday: []string{"A"}, Today: []string{"B"}, Format: model.FormatChat,
	})
	second := saveScrum(t, sess.Scrums, date, ScrumFields{
		Yesterday: []string{"수정"}, Today: []string{"다시"}, Blocker: "배포 지연", Format: model.FormatDocument,
	})

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ShareID, second.ShareID)
	assert.Equal(t, model.StringList{"수정"}, second.Yesterday)
	assert.Equal(t, "배포 지연", second.Blocker)
	assert.Equal(t, model.FormatDocument, second.Format)
}

func TestSaveScrumRejectsBadInput(t *testing.T) {
	sess := newTestSession(t)
	ctx := context.Background()

	_, err := sess.Scrums.SaveScrum(ctx, "not-a-date", ScrumFields{Format: model.FormatChat})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = sess.Scrums.SaveScrum(ctx, "2025-06-02", ScrumFields{Format: "pdf"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestShareIDsDistinctAcrossDates(t *testing.T) {
	sess := newTestSession(t)
	a := saveScrum(t, sess.Scrums, "2025-06-02", ScrumFields{Format: model.FormatChat})
	b := saveScrum(t, sess.Scrums, "2025-06-03", ScrumFields{Format: model.FormatChat})
	assert.NotEqual(t, a.ShareID, b.ShareID)
}

func TestGetScrumByShareID(t *testing.T) {
	sess := newTestSession(t)
	saved := saveScrum(t, sess.Scrums, "2025-06-02", ScrumFields{
		Yesterday: []string{"공유 테스트"}, Format: model.FormatChat,
	})

	found, err := sess.Scrums.GetScrumByShareID(context.Background(), saved.ShareID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
	assert.Equal(t, "2025-06-02", found.Date)

	_, err = sess.Scrums.GetScrumByShareID(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateScrumField(t *testing.T) {
	sess := newTestSession(t)
	date := "2025-06-02"
	ctx := context.Background()

	saveScrum(t, sess.Scrums, date, ScrumFields{
		Yesterday: []string{"A"}, Today: []string{"B"}, Format: model.FormatChat,
	})

	// Mixed value shapes: the JSON decoder hands []interface{}, internal
	// callers pass typed lists.
	require.NoError(t, sess.Scrums.UpdateScrumField(ctx, date, "yesterday", []interface{}{"갱신된 항목"}))
	require.NoError(t, sess.Scrums.UpdateScrumField(ctx, date, "blocker", "리뷰 대기"))
	require.NoError(t, sess.Scrums.UpdateScrumField(ctx, date, "format", "document"))

	scrum := sess.Scrums.GetScrum(date)
	assert.Equal(t, model.StringList{"갱신된 항목"}, scrum.Yesterday)
	assert.Equal(t, "리뷰 대기", scrum.Blocker)
	assert.Equal(t, model.FormatDocument, scrum.Format)

	assert.ErrorIs(t, sess.Scrums.UpdateScrumField(ctx, date, "share_id", "x"), ErrValidation)
	assert.ErrorIs(t, sess.Scrums.UpdateScrumField(ctx, date, "blocker", 42), ErrValidation)
	assert.ErrorIs(t, sess.Scrums.UpdateScrumField(ctx, date, "yesterday", "문자열"), ErrValidation)
}

func TestUpdateScrumFieldAbsentDateIsNoop(t *testing.T) {
	sess := newTestSession(t)
	err := sess.Scrums.UpdateScrumField(context.Background(), "2025-06-02", "blocker", "없음")
	assert.NoError(t, err)
	assert.Nil(t, sess.Scrums.GetScrum("2025-06-02"))
}

func TestDeleteScrum(t *testing.T) {
	sess := newTestSession(t)
	date := "2025-06-02"
	ctx := context.Background()

	saveScrum(t, sess.Scrums, date, ScrumFields{Format: model.FormatChat})
	require.NoError(t, sess.Scrums.DeleteScrum(ctx, date))
	assert.Nil(t, sess.Scrums.GetScrum(date))

	// Absent date is a no-op.
	assert.NoError(t, sess.Scrums.DeleteScrum(ctx, "2025-06-03"))
}

func TestApplyGenerated(t *testing.T) {
	sess := newTestSession(t)
	scrum, err := sess.Scrums.ApplyGenerated(context.Background(), "2025-06-02", model.ScrumDraft{
		Yesterday: []string{"로그인 버그 수정"},
		Today:     []string{"배포 준비"},
		Blocker:   "없음",
	}, model.FormatChat)
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"로그인 버그 수정"}, scrum.Yesterday)
	assert.NotEmpty(t, scrum.ShareID)
}
