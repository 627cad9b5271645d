package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"scrumlog/internal/model"

	"github.com/google/uuid"
)

// ScrumFields are the mutable fields of a daily scrum.
type ScrumFields struct {
	Yesterday   []string
	Today       []string
	Blocker     string
	Format      model.ScrumFormat
	IsTeamScrum bool
}

// ScrumStore caches one user's daily scrums by date in front of a Backend.
// Same locking model as WorklogStore: the mutex guards the map, not
// operation ordering.
type ScrumStore struct {
	mu     sync.RWMutex
	be     Backend
	scrums map[string]*model.DailyScrum
}

func NewScrumStore(be Backend) *ScrumStore {
	return &ScrumStore{be: be, scrums: make(map[string]*model.DailyScrum)}
}

// NewShareID mints an opaque share token: 8 chars of a dashless UUID.
func NewShareID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// GetScrum is a cache-only read.
func (s *ScrumStore) GetScrum(date string) *model.DailyScrum {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scrum, ok := s.scrums[date]
	if !ok {
		return nil
	}
	return cloneScrum(scrum)
}

// GetScrumByShareID scans the cache first, then falls back to a direct
// backend query so a share link works before the cache is primed.
func (s *ScrumStore) GetScrumByShareID(ctx context.Context, shareID string) (*model.DailyScrum, error) {
	s.mu.RLock()
	for _, scrum := range s.scrums {
		if scrum.ShareID == shareID {
			c := cloneScrum(scrum)
			s.mu.RUnlock()
			return c, nil
		}
	}
	s.mu.RUnlock()

	scrum, err := s.be.ScrumByShareID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	s.put(scrum)
	return cloneScrum(scrum), nil
}

// FetchScrums replaces the cache with the backend's current rows.
func (s *ScrumStore) FetchScrums(ctx context.Context) ([]model.DailyScrum, error) {
	scrums, err := s.be.Scrums(ctx)
	if err != nil {
		return nil, err
	}
	fresh := make(map[string]*model.DailyScrum, len(scrums))
	for i := range scrums {
		fresh[scrums[i].Date] = cloneScrum(&scrums[i])
	}
	s.mu.Lock()
	s.scrums = fresh
	s.mu.Unlock()
	return scrums, nil
}

// SaveScrum upserts the scrum for the date. An existing record keeps its id
// and share token and gets the new field values; a new record is created
// with a fresh share token.
func (s *ScrumStore) SaveScrum(ctx context.Context, date string, fields ScrumFields) (*model.DailyScrum, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	if !model.ValidFormat(fields.Format) {
		return nil, validationErr("올바른 형식이 아닙니다: %s", fields.Format)
	}

	scrum := &model.DailyScrum{
		Date:        date,
		Yesterday:   fields.Yesterday,
		Today:       fields.Today,
		Blocker:     fields.Blocker,
		Format:      fields.Format,
		IsTeamScrum: fields.IsTeamScrum,
	}
	if existing := s.GetScrum(date); existing != nil {
		scrum.ID = existing.ID
		scrum.ShareID = existing.ShareID
		scrum.CreatedAt = existing.CreatedAt
	} else {
		scrum.ShareID = NewShareID()
		scrum.CreatedAt = time.Now()
	}

	saved, err := s.be.UpsertScrum(ctx, scrum)
	if err != nil {
		return nil, err
	}
	s.put(saved)
	return cloneScrum(saved), nil
}

// UpdateScrumField persists a single-field change. A date without a cached
// record is a silent no-op: fields are only editable once a scrum exists.
func (s *ScrumStore) UpdateScrumField(ctx context.Context, date, field string, value interface{}) error {
	scrum := s.GetScrum(date)
	if scrum == nil {
		return nil
	}

	var dbValue interface{}
	switch field {
	case "yesterday", "today":
		list, err := toStringList(value)
		if err != nil {
			return err
		}
		dbValue = list
	case "blocker":
		str, ok := value.(string)
		if !ok {
			return validationErr("blocker 값은 문자열이어야 합니다")
		}
		dbValue = str
	case "format":
		str, ok := value.(string)
		if !ok || !model.ValidFormat(model.ScrumFormat(str)) {
			return validationErr("올바른 형식이 아닙니다")
		}
		dbValue = model.ScrumFormat(str)
	default:
		return validationErr("수정할 수 없는 필드입니다: %s", field)
	}

	if err := s.be.UpdateScrumField(ctx, scrum.ID, field, dbValue); err != nil {
		return err
	}

	s.mu.Lock()
	if cached, ok := s.scrums[date]; ok {
		switch field {
		case "yesterday":
			cached.Yesterday = dbValue.(model.StringList)
		case "today":
			cached.Today = dbValue.(model.StringList)
		case "blocker":
			cached.Blocker = dbValue.(string)
		case "format":
			cached.Format = dbValue.(model.ScrumFormat)
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteScrum removes the record and cache entry. No-op when absent.
func (s *ScrumStore) DeleteScrum(ctx context.Context, date string) error {
	scrum := s.GetScrum(date)
	if scrum == nil {
		return nil
	}
	if err := s.be.DeleteScrum(ctx, scrum.ID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.scrums, date)
	s.mu.Unlock()
	return nil
}

// ApplyGenerated saves AI-generated content for the date. It never calls the
// completion capability itself.
func (s *ScrumStore) ApplyGenerated(ctx context.Context, date string, draft model.ScrumDraft, format model.ScrumFormat) (*model.DailyScrum, error) {
	return s.SaveScrum(ctx, date, ScrumFields{
		Yesterday: draft.Yesterday,
		Today:     draft.Today,
		Blocker:   draft.Blocker,
		Format:    format,
	})
}

func (s *ScrumStore) put(scrum *model.DailyScrum) {
	s.mu.Lock()
	s.scrums[scrum.Date] = cloneScrum(scrum)
	s.mu.Unlock()
}

func toStringList(value interface{}) (model.StringList, error) {
	switch v := value.(type) {
	case model.StringList:
		return v, nil
	case []string:
		return model.StringList(v), nil
	case []interface{}:
		list := make(model.StringList, 0, len(v))
		for _, e := range v {
			str, ok := e.(string)
			if !ok {
				return nil, validationErr("목록 값은 문자열이어야 합니다")
			}
			list = append(list, str)
		}
		return list, nil
	default:
		return nil, validationErr("목록 값이 아닙니다")
	}
}
