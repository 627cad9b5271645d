package store

import (
	"context"
	"strings"
	"testing"

	"scrumlog/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(NewMemoryBackend(1), 1)
}

func addItem(t *testing.T, s *WorklogStore, date, content string) *model.WorkItem {
	t.Helper()
	item, err := s.AddWorkItem(context.Background(), date, content, model.TagFeature, model.StatusDone)
	require.NoError(t, err)
	return item
}

func itemOrders(log *model.WorkLog) []int {
	orders := make([]int, len(log.Items))
	for i, item := range log.Items {
		orders[i] = item.ItemOrder
	}
	return orders
}

func TestAddWorkItemAssignsDenseOrders(t *testing.T) {
	sess := newTestSession(t)
	date := "2025-06-02"

	addItem(t, sess.Worklogs, date, "첫 번째 작업")
	addItem(t, sess.Worklogs, date, "두 번째 작업")
	addItem(t, sess.Worklogs, date, "세 번째 작업")

	log := sess.Worklogs.GetWorkLog(date)
	require.NotNil(t, log)
	assert.Equal(t, []int{0, 1, 2}, itemOrders(log))
}

func TestDeleteWorkItemRecompactsOrders(t *testing.T) {
	sess := newTestSession(t)
	date := "2025-06-02"

	a := addItem(t, sess.Worklogs, date, "A")
	addItem(t, sess.Worklogs, date, "B")
	addItem(t, sess.Worklogs, date, "C")

	require.NoError(t, sess.Worklogs.DeleteWorkItem(context.Background(), date, a.ID))

	log := sess.Worklogs.GetWorkLog(date)
	require.Len(t, log.Items, 2)
	assert.Equal(t, []int{0, 1}, itemOrders(log))
	assert.Equal(t, "B", log.Items[0].Content)
	assert.Equal(t, "C", log.Items[1].Content)
}

func TestAddAfterDeleteReusesNextOrder(t *testing.T) {
	// 2025-06-02: three items, delete the middle one, add a new one. The new
	// item must take order 2, not 3, because deletion recompacted the run.
	sess := newTestSession(t)
	date := "2025-06-02"

	addItem(t, sess.Worklogs, date, "A")
	b := addItem(t, sess.Worklogs, date, "B")
	addItem(t, sess.Worklogs, date, "C")

	require.NoError(t, sess.Worklogs.DeleteWorkItem(context.Background(), date, b.ID))
	d := addItem(t, sess.Worklogs, date, "D")

	assert.Equal(t, 2, d.ItemOrder)
	log := sess.Worklogs.GetWorkLog(date)
	assert.Equal(t, []int{0, 1, 2}, itemOrders(log))
}

func TestAddWorkItemValidation(t *testing.T) {
	sess := newTestSession(t)
	ctx := context.Background()

	_, err := sess.Worklogs.AddWorkItem(ctx, "2025-06-02", "", model.TagFeature, model.StatusDone)
	assert.ErrorIs(t, err, ErrValidation)

	long := strings.Repeat("가", maxItemContentLen+1)
	_, err = sess.Worklogs.AddWorkItem(ctx, "2025-06-02", long, model.TagFeature, model.StatusDone)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = sess.Worklogs.AddWorkItem(ctx, "2025-06-02", "작업", "nope", model.StatusDone)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = sess.Worklogs.AddWorkItem(ctx, "2025-06-02", "작업", model.TagFeature, "nope")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = sess.Worklogs.AddWorkItem(ctx, "06/02/2025", "작업", model.TagFeature, model.StatusDone)
	assert.ErrorIs(t, err, ErrValidation)

	// A 500-rune content is exactly at the limit.
	_, err = sess.Worklogs.AddWorkItem(ctx, "2025-06-02", strings.Repeat("가", maxItemContentLen), model.TagFeature, model.StatusDone)
	assert.NoError(t, err)
}

func TestUpdateWorkItem(t *testing.T) {
	sess := newTestSession(t)
	date := "2025-06-02"
	ctx := context.Background()

	item := addItem(t, sess.Worklogs, date, "초안")

	content := "수정된 작업"
	status := model.StatusInProgress
	err := sess.Worklogs.UpdateWorkItem(ctx, date, item.ID, ItemPatch{Content: &content, Status: &status})
	require.NoError(t, err)

	log := sess.Worklogs.GetWorkLog(date)
	assert.Equal(t, "수정된 작업", log.Items[0].Content)
	assert.Equal(t, model.StatusInProgress, log.Items[0].Status)
	assert.Equal(t, model.TagFeature, log.Items[0].Tag)

	err = sess.Worklogs.UpdateWorkItem(ctx, date, 9999, ItemPatch{Content: &content})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorderWorkItems(t *testing.T) {
	sess := newTestSession(t)
	date := "2025-06-02"
	ctx := context.Background()

	a := addItem(t, sess.Worklogs, date, "A")
	b := addItem(t, sess.Worklogs, date, "B")
	c := addItem(t, sess.Worklogs, date, "C")

	require.NoError(t, sess.Worklogs.ReorderWorkItems(ctx, date, []int{c.ID, a.ID, b.ID}))

	log := sess.Worklogs.GetWorkLog(date)
	assert.Equal(t, []int{0, 1, 2}, itemOrders(log))
	assert.Equal(t, "C", log.Items[0].Content)
	assert.Equal(t, "A", log.Items[1].Content)
	assert.Equal(t, "B", log.Items[2].Content)

	// Partial or foreign id lists are rejected.
	err := sess.Worklogs.ReorderWorkItems(ctx, date, []int{a.ID, b.ID})
	assert.ErrorIs(t, err, ErrValidation)
	err = sess.Worklogs.ReorderWorkItems(ctx, date, []int{a.ID, b.ID, 9999})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteWorkLog(t *testing.T) {
	sess := newTestSession(t)
	date := "2025-06-02"
	ctx := context.Background()

	addItem(t, sess.Worklogs, date, "A")
	require.NoError(t, sess.Worklogs.DeleteWorkLog(ctx, date))
	assert.Nil(t, sess.Worklogs.GetWorkLog(date))

	// Absent date is a no-op.
	assert.NoError(t, sess.Worklogs.DeleteWorkLog(ctx, "2025-06-03"))
}

func TestFetchWorkLogMissingDate(t *testing.T) {
	sess := newTestSession(t)
	log, err := sess.Worklogs.FetchWorkLog(context.Background(), "2025-06-02")
	assert.NoError(t, err)
	assert.Nil(t, log)
}
