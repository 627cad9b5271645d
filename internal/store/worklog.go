package store

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"scrumlog/internal/model"
)

const maxItemContentLen = 500

// ItemPatch is a partial work-item change; nil fields are left as they are.
type ItemPatch struct {
	Content *string
	Tag     *model.WorkTag
	Status  *model.WorkStatus
	Order   *int
}

// WorklogStore caches one user's work logs by date in front of a Backend.
//
// The mutex protects the cache map only. Operations against the same date
// are not serialized against each other: overlapping edits resolve in
// completion order (last write wins), which is a documented limitation of
// the sync model, not a bug to paper over here.
type WorklogStore struct {
	mu   sync.RWMutex
	be   Backend
	logs map[string]*model.WorkLog
}

func NewWorklogStore(be Backend) *WorklogStore {
	return &WorklogStore{be: be, logs: make(map[string]*model.WorkLog)}
}

// GetWorkLog is a cache-only read; it never touches the backend.
func (s *WorklogStore) GetWorkLog(date string) *model.WorkLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[date]
	if !ok {
		return nil
	}
	return cloneLog(l)
}

// FetchWorkLogs replaces the cache with the backend's current rows.
func (s *WorklogStore) FetchWorkLogs(ctx context.Context) ([]model.WorkLog, error) {
	logs, err := s.be.WorkLogs(ctx)
	if err != nil {
		return nil, err
	}
	fresh := make(map[string]*model.WorkLog, len(logs))
	for i := range logs {
		fresh[logs[i].Date] = cloneLog(&logs[i])
	}
	s.mu.Lock()
	s.logs = fresh
	s.mu.Unlock()
	return logs, nil
}

// FetchWorkLog loads one date from the backend into the cache.
// Returns nil (no error) when the backend has no row for the date.
func (s *WorklogStore) FetchWorkLog(ctx context.Context, date string) (*model.WorkLog, error) {
	l, err := s.be.WorkLogByDate(ctx, date)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.put(l)
	return cloneLog(l), nil
}

// EnsureWorkLog returns the cached log for the date, creating an empty one
// via idempotent upsert when none exists.
func (s *WorklogStore) EnsureWorkLog(ctx context.Context, date string) (*model.WorkLog, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	if l := s.GetWorkLog(date); l != nil {
		return l, nil
	}
	l, err := s.be.UpsertWorkLog(ctx, date)
	if err != nil {
		return nil, err
	}
	s.put(l)
	return cloneLog(l), nil
}

// AddWorkItem appends a new item at the end of the date's log. The order of
// the new item is the current item count, keeping item_order a dense 0..n-1
// sequence.
func (s *WorklogStore) AddWorkItem(ctx context.Context, date, content string, tag model.WorkTag, status model.WorkStatus) (*model.WorkItem, error) {
	if content == "" {
		return nil, validationErr("작업 내용을 입력해주세요")
	}
	if utf8.RuneCountInString(content) > maxItemContentLen {
		return nil, validationErr("작업 내용은 %d자를 초과할 수 없습니다", maxItemContentLen)
	}
	if !model.ValidTag(tag) {
		return nil, validationErr("올바른 태그가 아닙니다: %s", tag)
	}
	if !model.ValidStatus(status) {
		return nil, validationErr("올바른 상태가 아닙니다: %s", status)
	}

	log, err := s.EnsureWorkLog(ctx, date)
	if err != nil {
		return nil, err
	}

	item := model.WorkItem{
		WorkLogID: log.ID,
		Content:   content,
		Tag:       tag,
		Status:    status,
		ItemOrder: len(log.Items),
	}
	if err := s.be.InsertWorkItem(ctx, &item); err != nil {
		return nil, err
	}
	if err := s.be.TouchWorkLog(ctx, log.ID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if l, ok := s.logs[date]; ok {
		l.Items = append(l.Items, item)
		l.UpdatedAt = time.Now()
	}
	s.mu.Unlock()
	return &item, nil
}

// UpdateWorkItem merges the patch into the item. Missing item: ErrNotFound.
func (s *WorklogStore) UpdateWorkItem(ctx context.Context, date string, itemID int, patch ItemPatch) error {
	log := s.GetWorkLog(date)
	if log == nil {
		return ErrNotFound
	}
	idx := itemIndex(log.Items, itemID)
	if idx < 0 {
		return ErrNotFound
	}

	fields := make(map[string]interface{})
	if patch.Content != nil {
		if *patch.Content == "" || utf8.RuneCountInString(*patch.Content) > maxItemContentLen {
			return validationErr("작업 내용은 1~%d자여야 합니다", maxItemContentLen)
		}
		fields["content"] = *patch.Content
	}
	if patch.Tag != nil {
		if !model.ValidTag(*patch.Tag) {
			return validationErr("올바른 태그가 아닙니다: %s", *patch.Tag)
		}
		fields["tag"] = string(*patch.Tag)
	}
	if patch.Status != nil {
		if !model.ValidStatus(*patch.Status) {
			return validationErr("올바른 상태가 아닙니다: %s", *patch.Status)
		}
		fields["status"] = string(*patch.Status)
	}
	if patch.Order != nil {
		fields["item_order"] = *patch.Order
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.be.UpdateWorkItem(ctx, itemID, fields); err != nil {
		return err
	}

	s.mu.Lock()
	if l, ok := s.logs[date]; ok {
		if i := itemIndex(l.Items, itemID); i >= 0 {
			item := &l.Items[i]
			if patch.Content != nil {
				item.Content = *patch.Content
			}
			if patch.Tag != nil {
				item.Tag = *patch.Tag
			}
			if patch.Status != nil {
				item.Status = *patch.Status
			}
			if patch.Order != nil {
				item.ItemOrder = *patch.Order
			}
			l.UpdatedAt = time.Now()
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteWorkItem removes the item and re-compacts the remaining orders to a
// dense 0..n-1 sequence, stable by prior relative order.
func (s *WorklogStore) DeleteWorkItem(ctx context.Context, date string, itemID int) error {
	log := s.GetWorkLog(date)
	if log == nil {
		return ErrNotFound
	}
	if itemIndex(log.Items, itemID) < 0 {
		return ErrNotFound
	}

	if err := s.be.DeleteWorkItem(ctx, itemID); err != nil {
		return err
	}

	remaining := make([]model.WorkItem, 0, len(log.Items)-1)
	orders := make(map[int]int)
	for _, item := range log.Items {
		if item.ID == itemID {
			continue
		}
		item.ItemOrder = len(remaining)
		orders[item.ID] = item.ItemOrder
		remaining = append(remaining, item)
	}
	// Re-compaction is best effort: the delete itself already succeeded, so
	// the cache moves forward even if some order rewrites were rejected.
	err := s.be.UpdateItemOrders(ctx, orders)

	s.mu.Lock()
	if l, ok := s.logs[date]; ok {
		l.Items = remaining
		l.UpdatedAt = time.Now()
	}
	s.mu.Unlock()
	return err
}

// ReorderWorkItems accepts every item id of the date in its new order and
// rewrites item_order accordingly, replacing the cache entry verbatim.
func (s *WorklogStore) ReorderWorkItems(ctx context.Context, date string, itemIDs []int) error {
	log := s.GetWorkLog(date)
	if log == nil {
		return ErrNotFound
	}
	if len(itemIDs) != len(log.Items) {
		return validationErr("정렬 대상 항목 수가 일치하지 않습니다")
	}

	byID := make(map[int]model.WorkItem, len(log.Items))
	for _, item := range log.Items {
		byID[item.ID] = item
	}
	reordered := make([]model.WorkItem, 0, len(itemIDs))
	orders := make(map[int]int, len(itemIDs))
	for i, id := range itemIDs {
		item, ok := byID[id]
		if !ok {
			return validationErr("알 수 없는 작업 항목: %d", id)
		}
		delete(byID, id)
		item.ItemOrder = i
		orders[id] = i
		reordered = append(reordered, item)
	}

	if err := s.be.UpdateItemOrders(ctx, orders); err != nil {
		return err
	}

	s.mu.Lock()
	if l, ok := s.logs[date]; ok {
		l.Items = reordered
		l.UpdatedAt = time.Now()
	}
	s.mu.Unlock()
	return nil
}

// DeleteWorkLog removes the whole log for the date. No-op when absent.
func (s *WorklogStore) DeleteWorkLog(ctx context.Context, date string) error {
	log := s.GetWorkLog(date)
	if log == nil {
		return nil
	}
	if err := s.be.DeleteWorkLog(ctx, log.ID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.logs, date)
	s.mu.Unlock()
	return nil
}

func (s *WorklogStore) put(l *model.WorkLog) {
	s.mu.Lock()
	s.logs[l.Date] = cloneLog(l)
	s.mu.Unlock()
}

func itemIndex(items []model.WorkItem, id int) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func validDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return validationErr("날짜 형식이 올바르지 않습니다: %s", date)
	}
	return nil
}
