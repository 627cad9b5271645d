package store

import (
	"context"
	"errors"
	"time"

	"scrumlog/internal/model"

	"gorm.io/gorm"
)

// GormBackend persists rows to the relational store for one signed-in user.
type GormBackend struct {
	db     *gorm.DB
	userID int
}

func NewGormBackend(db *gorm.DB, userID int) *GormBackend {
	return &GormBackend{db: db, userID: userID}
}

func orderedItems(db *gorm.DB) *gorm.DB { return db.Order("item_order") }

func (b *GormBackend) WorkLogs(ctx context.Context) ([]model.WorkLog, error) {
	var logs []model.WorkLog
	err := b.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("user_id = ?", b.userID).
		Order("date DESC").
		Find(&logs).Error
	if err != nil {
		return nil, remoteErr("select work logs", err)
	}
	return logs, nil
}

func (b *GormBackend) WorkLogByDate(ctx context.Context, date string) (*model.WorkLog, error) {
	var log model.WorkLog
	err := b.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("user_id = ? AND date = ?", b.userID, date).
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, remoteErr("select work log", err)
	}
	return &log, nil
}

func (b *GormBackend) UpsertWorkLog(ctx context.Context, date string) (*model.WorkLog, error) {
	log, err := b.WorkLogByDate(ctx, date)
	if err == nil {
		return log, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created := model.WorkLog{UserID: b.userID, Date: date}
	if err := b.db.WithContext(ctx).Create(&created).Error; err != nil {
		// Lost an upsert race: the unique (user, date) index rejected the
		// insert, so the row exists now.
		if existing, ferr := b.WorkLogByDate(ctx, date); ferr == nil {
			return existing, nil
		}
		return nil, remoteErr("insert work log", err)
	}
	created.Items = []model.WorkItem{}
	return &created, nil
}

func (b *GormBackend) DeleteWorkLog(ctx context.Context, id int) error {
	err := b.db.WithContext(ctx).
		Where("user_id = ?", b.userID).
		Delete(&model.WorkLog{}, id).Error
	if err != nil {
		return remoteErr("delete work log", err)
	}
	// Cascade is declared on the FK, but clean up items explicitly in case
	// the schema predates the constraint.
	if err := b.db.WithContext(ctx).Where("work_log_id = ?", id).Delete(&model.WorkItem{}).Error; err != nil {
		return remoteErr("delete work items", err)
	}
	return nil
}

func (b *GormBackend) TouchWorkLog(ctx context.Context, id int) error {
	err := b.db.WithContext(ctx).
		Model(&model.WorkLog{}).
		Where("id = ? AND user_id = ?", id, b.userID).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return remoteErr("touch work log", err)
	}
	return nil
}

func (b *GormBackend) InsertWorkItem(ctx context.Context, item *model.WorkItem) error {
	if err := b.db.WithContext(ctx).Create(item).Error; err != nil {
		return remoteErr("insert work item", err)
	}
	return nil
}

func (b *GormBackend) UpdateWorkItem(ctx context.Context, id int, fields map[string]interface{}) error {
	res := b.db.WithContext(ctx).
		Model(&model.WorkItem{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return remoteErr("update work item", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (b *GormBackend) DeleteWorkItem(ctx context.Context, id int) error {
	if err := b.db.WithContext(ctx).Delete(&model.WorkItem{}, id).Error; err != nil {
		return remoteErr("delete work item", err)
	}
	return nil
}

func (b *GormBackend) UpdateItemOrders(ctx context.Context, orders map[int]int) error {
	// One row-level update per item; the relational store owns atomicity per
	// call only, so a partial rewrite is possible and tolerated.
	var firstErr error
	for id, ord := range orders {
		err := b.db.WithContext(ctx).
			Model(&model.WorkItem{}).
			Where("id = ?", id).
			Update("item_order", ord).Error
		if err != nil && firstErr == nil {
			firstErr = remoteErr("update item order", err)
		}
	}
	return firstErr
}

func (b *GormBackend) Scrums(ctx context.Context) ([]model.DailyScrum, error) {
	// Personal scrums only; team scrums live under the team read path.
	var scrums []model.DailyScrum
	err := b.db.WithContext(ctx).
		Where("user_id = ? AND is_team_scrum = ?", b.userID, false).
		Order("date DESC").
		Find(&scrums).Error
	if err != nil {
		return nil, remoteErr("select scrums", err)
	}
	return scrums, nil
}

func (b *GormBackend) UpsertScrum(ctx context.Context, s *model.DailyScrum) (*model.DailyScrum, error) {
	var existing model.DailyScrum
	err := b.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND is_team_scrum = ?", b.userID, s.Date, s.IsTeamScrum).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		created := *s
		created.UserID = b.userID
		if err := b.db.WithContext(ctx).Create(&created).Error; err != nil {
			return nil, remoteErr("insert scrum", err)
		}
		return &created, nil
	}
	if err != nil {
		return nil, remoteErr("select scrum", err)
	}

	err = b.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"yesterday":     s.Yesterday,
		"today":         s.Today,
		"blocker":       s.Blocker,
		"format":        s.Format,
		"is_team_scrum": s.IsTeamScrum,
	}).Error
	if err != nil {
		return nil, remoteErr("update scrum", err)
	}

	existing.Yesterday = s.Yesterday
	existing.Today = s.Today
	existing.Blocker = s.Blocker
	existing.Format = s.Format
	existing.IsTeamScrum = s.IsTeamScrum
	return &existing, nil
}

func (b *GormBackend) ScrumByShareID(ctx context.Context, shareID string) (*model.DailyScrum, error) {
	// Share-token reads are anonymous by contract, so no user filter here.
	var s model.DailyScrum
	err := b.db.WithContext(ctx).Where("share_id = ?", shareID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, remoteErr("select scrum by share id", err)
	}
	return &s, nil
}

func (b *GormBackend) UpdateScrumField(ctx context.Context, id int, field string, value interface{}) error {
	err := b.db.WithContext(ctx).
		Model(&model.DailyScrum{}).
		Where("id = ? AND user_id = ?", id, b.userID).
		Update(field, value).Error
	if err != nil {
		return remoteErr("update scrum field", err)
	}
	return nil
}

func (b *GormBackend) DeleteScrum(ctx context.Context, id int) error {
	err := b.db.WithContext(ctx).
		Where("user_id = ?", b.userID).
		Delete(&model.DailyScrum{}, id).Error
	if err != nil {
		return remoteErr("delete scrum", err)
	}
	return nil
}
