package service

import (
	"context"
	"errors"
	"fmt"

	"scrumlog/internal/model"
	"scrumlog/internal/store"

	"gorm.io/gorm"
)

// TeamService covers the read-aggregation side of team scrums: membership,
// admin checks, and fetching member scrums for a date. Row-level access
// control beyond the admin check belongs to the backing store.
type TeamService struct{ db *gorm.DB }

func NewTeamService(db *gorm.DB) *TeamService { return &TeamService{db: db} }

// InitTeam creates a team with the caller as admin. A caller already in a
// team gets that team back instead.
func (s *TeamService) InitTeam(ctx context.Context, userID int, name string) (*model.Team, error) {
	if team, _, err := s.TeamOf(ctx, userID); err == nil {
		return team, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	team := model.Team{Name: name, AdminUserID: userID}
	if err := s.db.WithContext(ctx).Create(&team).Error; err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	member := model.TeamMember{TeamID: team.ID, UserID: userID, Role: model.RoleAdmin}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		return nil, fmt.Errorf("insert team member: %w", err)
	}
	return &team, nil
}

// AddMember attaches a user to the team with the member role.
func (s *TeamService) AddMember(ctx context.Context, teamID, userID int) error {
	member := model.TeamMember{TeamID: teamID, UserID: userID, Role: model.RoleMember}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		return fmt.Errorf("insert team member: %w", err)
	}
	return nil
}

// TeamOf returns the team and membership of a user.
func (s *TeamService) TeamOf(ctx context.Context, userID int) (*model.Team, *model.TeamMember, error) {
	var member model.TeamMember
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&member).Error; err != nil {
		return nil, nil, err
	}
	var team model.Team
	if err := s.db.WithContext(ctx).First(&team, member.TeamID).Error; err != nil {
		return nil, nil, err
	}
	return &team, &member, nil
}

// IsAdmin reports whether the user holds the admin role in their team.
func (s *TeamService) IsAdmin(ctx context.Context, userID int) (bool, error) {
	_, member, err := s.TeamOf(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return member.Role == model.RoleAdmin, nil
}

// Members lists the team's members with their profiles.
func (s *TeamService) Members(ctx context.Context, teamID int) ([]model.TeamMemberInfo, error) {
	var infos []model.TeamMemberInfo
	err := s.db.WithContext(ctx).
		Table("team_members").
		Select("team_members.user_id, team_members.role, users.email, users.display_name").
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id = ?", teamID).
		Order("team_members.user_id").
		Scan(&infos).Error
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	return infos, nil
}

// SaveTeamScrum upserts the consolidated team scrum under the admin's id with
// the team flag set, so it never collides with the admin's personal scrum.
func (s *TeamService) SaveTeamScrum(ctx context.Context, userID int, date string, yesterday, today []string, blocker string, format model.ScrumFormat) (*model.DailyScrum, error) {
	var existing model.DailyScrum
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND is_team_scrum = ?", userID, date, true).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		scrum := model.DailyScrum{
			UserID:      userID,
			Date:        date,
			Yesterday:   yesterday,
			Today:       today,
			Blocker:     blocker,
			Format:      format,
			ShareID:     store.NewShareID(),
			IsTeamScrum: true,
		}
		if err := s.db.WithContext(ctx).Create(&scrum).Error; err != nil {
			return nil, fmt.Errorf("insert team scrum: %w", err)
		}
		return &scrum, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query team scrum: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"yesterday": model.StringList(yesterday),
		"today":     model.StringList(today),
		"blocker":   blocker,
		"format":    format,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update team scrum: %w", err)
	}
	existing.Yesterday = yesterday
	existing.Today = today
	existing.Blocker = blocker
	existing.Format = format
	return &existing, nil
}

// MemberScrums fetches the team members' daily scrums for one date
// (read-only join via user id, not ownership).
func (s *TeamService) MemberScrums(ctx context.Context, teamID int, date string) ([]model.DailyScrum, error) {
	var scrums []model.DailyScrum
	err := s.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.user_id = daily_scrums.user_id").
		Where("team_members.team_id = ? AND daily_scrums.date = ? AND daily_scrums.is_team_scrum = ?", teamID, date, false).
		Order("daily_scrums.user_id").
		Find(&scrums).Error
	if err != nil {
		return nil, fmt.Errorf("query member scrums: %w", err)
	}
	return scrums, nil
}

// ScrumsOf returns the given users' scrums for one date, restricted to the
// team so a non-member id cannot leak data into consolidation.
func (s *TeamService) ScrumsOf(ctx context.Context, teamID int, userIDs []int, date string) ([]model.DailyScrum, error) {
	var scrums []model.DailyScrum
	err := s.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.user_id = daily_scrums.user_id").
		Where("team_members.team_id = ? AND daily_scrums.user_id IN ? AND daily_scrums.date = ?", teamID, userIDs, date).
		Order("daily_scrums.user_id").
		Find(&scrums).Error
	if err != nil {
		return nil, fmt.Errorf("query selected scrums: %w", err)
	}
	return scrums, nil
}
