package service

import (
	"context"
	"errors"
	"fmt"

	"scrumlog/internal/model"

	"gorm.io/gorm"
)

// WeeklyService persists weekly reviews and fetches the daily scrums that
// feed them.
type WeeklyService struct{ db *gorm.DB }

func NewWeeklyService(db *gorm.DB) *WeeklyService { return &WeeklyService{db: db} }

// ScrumsInRange returns the user's own daily scrums in [start, end],
// oldest first. Team scrums are excluded.
func (s *WeeklyService) ScrumsInRange(ctx context.Context, userID int, start, end string) ([]model.DailyScrum, error) {
	var scrums []model.DailyScrum
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ? AND is_team_scrum = ?", userID, start, end, false).
		Order("date").
		Find(&scrums).Error
	if err != nil {
		return nil, fmt.Errorf("query scrums in range: %w", err)
	}
	return scrums, nil
}

// Save upserts the review on (user, week_start).
func (s *WeeklyService) Save(ctx context.Context, review *model.WeeklyReview) (*model.WeeklyReview, error) {
	var existing model.WeeklyReview
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", review.UserID, review.WeekStart).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
			return nil, fmt.Errorf("insert weekly review: %w", err)
		}
		return review, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query weekly review: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"week_end":       review.WeekEnd,
		"summary":        review.Summary,
		"highlights":     review.Highlights,
		"improvements":   review.Improvements,
		"next_week_goal": review.NextWeekGoal,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update weekly review: %w", err)
	}
	existing.WeekEnd = review.WeekEnd
	existing.Summary = review.Summary
	existing.Highlights = review.Highlights
	existing.Improvements = review.Improvements
	existing.NextWeekGoal = review.NextWeekGoal
	return &existing, nil
}

// List returns the user's reviews, newest week first.
func (s *WeeklyService) List(ctx context.Context, userID int) ([]model.WeeklyReview, error) {
	var reviews []model.WeeklyReview
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("query weekly reviews: %w", err)
	}
	return reviews, nil
}
