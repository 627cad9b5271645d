package store

import (
	"context"

	"scrumlog/internal/model"
)

// Backend is the persistence port behind the stores. A backend instance is
// bound to one caller identity; the gorm adapter persists to MySQL for
// signed-in users, the memory adapter keeps everything process-local for the
// anonymous mode. Each call maps to a single row-level operation — no
// backend method spans a client-side transaction.
type Backend interface {
	WorkLogs(ctx context.Context) ([]model.WorkLog, error)
	WorkLogByDate(ctx context.Context, date string) (*model.WorkLog, error)
	// UpsertWorkLog creates the (user, date) work log if missing and returns
	// the canonical row either way.
	UpsertWorkLog(ctx context.Context, date string) (*model.WorkLog, error)
	DeleteWorkLog(ctx context.Context, id int) error
	TouchWorkLog(ctx context.Context, id int) error

	// InsertWorkItem persists the item and fills in its assigned ID.
	InsertWorkItem(ctx context.Context, item *model.WorkItem) error
	UpdateWorkItem(ctx context.Context, id int, fields map[string]interface{}) error
	DeleteWorkItem(ctx context.Context, id int) error
	// UpdateItemOrders rewrites item_order per item id. Best effort: every
	// update is attempted even if an earlier one fails.
	UpdateItemOrders(ctx context.Context, orders map[int]int) error

	Scrums(ctx context.Context) ([]model.DailyScrum, error)
	// UpsertScrum upserts on (user, date), preserving id, share_id and
	// created_at of an existing row, and returns the canonical row.
	UpsertScrum(ctx context.Context, s *model.DailyScrum) (*model.DailyScrum, error)
	ScrumByShareID(ctx context.Context, shareID string) (*model.DailyScrum, error)
	UpdateScrumField(ctx context.Context, id int, field string, value interface{}) error
	DeleteScrum(ctx context.Context, id int) error
}
