package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"scrumlog/internal/model"
)

// MemoryBackend is the local-only persistence adapter: it fulfils the same
// contract as the gorm adapter but keeps rows in process memory. Used for
// anonymous callers, whose data lives only for the session, and as the
// backend in tests.
type MemoryBackend struct {
	mu     sync.Mutex
	userID int
	nextID int
	logs   map[string]*model.WorkLog
	scrums map[string]*model.DailyScrum
}

func NewMemoryBackend(userID int) *MemoryBackend {
	return &MemoryBackend{
		userID: userID,
		logs:   make(map[string]*model.WorkLog),
		scrums: make(map[string]*model.DailyScrum),
	}
}

func (b *MemoryBackend) nextid() int {
	b.nextID++
	return b.nextID
}

func cloneLog(l *model.WorkLog) *model.WorkLog {
	c := *l
	c.Items = append([]model.WorkItem(nil), l.Items...)
	return &c
}

func cloneScrum(s *model.DailyScrum) *model.DailyScrum {
	c := *s
	c.Yesterday = append(model.StringList(nil), s.Yesterday...)
	c.Today = append(model.StringList(nil), s.Today...)
	return &c
}

func (b *MemoryBackend) WorkLogs(ctx context.Context) ([]model.WorkLog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	logs := make([]model.WorkLog, 0, len(b.logs))
	for _, l := range b.logs {
		logs = append(logs, *cloneLog(l))
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })
	return logs, nil
}

func (b *MemoryBackend) WorkLogByDate(ctx context.Context, date string) (*model.WorkLog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.logs[date]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneLog(l), nil
}

func (b *MemoryBackend) UpsertWorkLog(ctx context.Context, date string) (*model.WorkLog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if l, ok := b.logs[date]; ok {
		return cloneLog(l), nil
	}
	now := time.Now()
	l := &model.WorkLog{
		ID:        b.nextid(),
		UserID:    b.userID,
		Date:      date,
		Items:     []model.WorkItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.logs[date] = l
	return cloneLog(l), nil
}

func (b *MemoryBackend) DeleteWorkLog(ctx context.Context, id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for date, l := range b.logs {
		if l.ID == id {
			delete(b.logs, date)
			return nil
		}
	}
	return nil
}

func (b *MemoryBackend) TouchWorkLog(ctx context.Context, id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range b.logs {
		if l.ID == id {
			l.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (b *MemoryBackend) InsertWorkItem(ctx context.Context, item *model.WorkItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range b.logs {
		if l.ID == item.WorkLogID {
			item.ID = b.nextid()
			l.Items = append(l.Items, *item)
			return nil
		}
	}
	return ErrNotFound
}

func (b *MemoryBackend) findItem(id int) (*model.WorkLog, int) {
	for _, l := range b.logs {
		for i := range l.Items {
			if l.Items[i].ID == id {
				return l, i
			}
		}
	}
	return nil, -1
}

func (b *MemoryBackend) UpdateWorkItem(ctx context.Context, id int, fields map[string]interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, i := b.findItem(id)
	if l == nil {
		return ErrNotFound
	}
	item := &l.Items[i]
	for k, v := range fields {
		switch k {
		case "content":
			item.Content = v.(string)
		case "tag":
			item.Tag = model.WorkTag(v.(string))
		case "status":
			item.Status = model.WorkStatus(v.(string))
		case "item_order":
			item.ItemOrder = v.(int)
		}
	}
	return nil
}

func (b *MemoryBackend) DeleteWorkItem(ctx context.Context, id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, i := b.findItem(id)
	if l == nil {
		return nil
	}
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
	return nil
}

func (b *MemoryBackend) UpdateItemOrders(ctx context.Context, orders map[int]int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ord := range orders {
		if l, i := b.findItem(id); l != nil {
			l.Items[i].ItemOrder = ord
		}
	}
	return nil
}

func (b *MemoryBackend) Scrums(ctx context.Context) ([]model.DailyScrum, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	scrums := make([]model.DailyScrum, 0, len(b.scrums))
	for _, s := range b.scrums {
		scrums = append(scrums, *cloneScrum(s))
	}
	sort.Slice(scrums, func(i, j int) bool { return scrums[i].Date > scrums[j].Date })
	return scrums, nil
}

func (b *MemoryBackend) UpsertScrum(ctx context.Context, s *model.DailyScrum) (*model.DailyScrum, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.scrums[s.Date]; ok {
		existing.Yesterday = append(model.StringList(nil), s.Yesterday...)
		existing.Today = append(model.StringList(nil), s.Today...)
		existing.Blocker = s.Blocker
		existing.Format = s.Format
		existing.IsTeamScrum = s.IsTeamScrum
		return cloneScrum(existing), nil
	}
	created := cloneScrum(s)
	created.ID = b.nextid()
	created.UserID = b.userID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	b.scrums[s.Date] = created
	return cloneScrum(created), nil
}

func (b *MemoryBackend) ScrumByShareID(ctx context.Context, shareID string) (*model.DailyScrum, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.scrums {
		if s.ShareID == shareID {
			return cloneScrum(s), nil
		}
	}
	return nil, ErrNotFound
}

func (b *MemoryBackend) UpdateScrumField(ctx context.Context, id int, field string, value interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.scrums {
		if s.ID != id {
			continue
		}
		switch field {
		case "yesterday":
			s.Yesterday = append(model.StringList(nil), value.(model.StringList)...)
		case "today":
			s.Today = append(model.StringList(nil), value.(model.StringList)...)
		case "blocker":
			s.Blocker = value.(string)
		case "format":
			s.Format = value.(model.ScrumFormat)
		}
		return nil
	}
	return nil
}

func (b *MemoryBackend) DeleteScrum(ctx context.Context, id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for date, s := range b.scrums {
		if s.ID == id {
			delete(b.scrums, date)
			return nil
		}
	}
	return nil
}
