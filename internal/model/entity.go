package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type WorkTag string

const (
	TagFeature WorkTag = "feature"
	TagBugfix  WorkTag = "bugfix"
	TagMeeting WorkTag = "meeting"
	TagReview  WorkTag = "review"
	TagEtc     WorkTag = "etc"
)

type WorkStatus string

const (
	StatusDone       WorkStatus = "done"
	StatusInProgress WorkStatus = "in-progress"
	StatusBlocked    WorkStatus = "blocked"
)

type ScrumFormat string

const (
	FormatChat     ScrumFormat = "chat"
	FormatDocument ScrumFormat = "document"
)

// StringList stores a []string as a JSON column (MySQL has no array type).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("scan StringList: unsupported type %T", src)
	}
}

type User struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex" json:"email"`
	Password    string    `json:"-"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type WorkLog struct {
	ID        int        `gorm:"primaryKey" json:"id"`
	UserID    int        `gorm:"uniqueIndex:uk_worklog_user_date" json:"user_id"`
	Date      string     `gorm:"type:date;uniqueIndex:uk_worklog_user_date" json:"date"`
	Items     []WorkItem `gorm:"foreignKey:WorkLogID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type WorkItem struct {
	ID        int        `gorm:"primaryKey" json:"id"`
	WorkLogID int        `gorm:"index" json:"work_log_id"`
	Content   string     `gorm:"size:500" json:"content"`
	Tag       WorkTag    `gorm:"size:20;default:etc" json:"tag"`
	Status    WorkStatus `gorm:"size:20;default:done" json:"status"`
	ItemOrder int        `json:"order"`
}

type DailyScrum struct {
	ID          int         `gorm:"primaryKey" json:"id"`
	UserID      int         `gorm:"uniqueIndex:uk_scrum_user_date" json:"user_id,omitempty"`
	Date        string      `gorm:"type:date;uniqueIndex:uk_scrum_user_date" json:"date"`
	Yesterday   StringList  `gorm:"type:json" json:"yesterday"`
	Today       StringList  `gorm:"type:json" json:"today"`
	Blocker     string      `json:"blocker"`
	Format      ScrumFormat `gorm:"size:20;default:chat" json:"format"`
	ShareID     string      `gorm:"uniqueIndex;size:16" json:"share_id"`
	IsTeamScrum bool        `gorm:"uniqueIndex:uk_scrum_user_date" json:"is_team_scrum"`
	CreatedAt   time.Time   `json:"created_at"`
}

type TeamMemberRole string

const (
	RoleAdmin  TeamMemberRole = "admin"
	RoleMember TeamMemberRole = "member"
)

type Team struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	AdminUserID int       `json:"admin_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type TeamMember struct {
	TeamID    int            `gorm:"primaryKey" json:"team_id"`
	UserID    int            `gorm:"primaryKey" json:"user_id"`
	Role      TeamMemberRole `gorm:"size:10;default:member" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
}

type WeeklyReview struct {
	ID           int        `gorm:"primaryKey" json:"id"`
	UserID       int        `gorm:"uniqueIndex:uk_weekly_user_start" json:"user_id"`
	WeekStart    string     `gorm:"type:date;uniqueIndex:uk_weekly_user_start" json:"week_start"`
	WeekEnd      string     `gorm:"type:date" json:"week_end"`
	Summary      StringList `gorm:"type:json" json:"summary"`
	Highlights   StringList `gorm:"type:json" json:"highlights"`
	Improvements StringList `gorm:"type:json" json:"improvements"`
	NextWeekGoal StringList `gorm:"type:json" json:"next_week_goals"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (User) TableName() string         { return "users" }
func (WorkLog) TableName() string      { return "work_logs" }
func (WorkItem) TableName() string     { return "work_items" }
func (DailyScrum) TableName() string   { return "daily_scrums" }
func (Team) TableName() string         { return "teams" }
func (TeamMember) TableName() string   { return "team_members" }
func (WeeklyReview) TableName() string { return "weekly_reviews" }

// ValidTag reports whether t is one of the known work tags.
func ValidTag(t WorkTag) bool {
	switch t {
	case TagFeature, TagBugfix, TagMeeting, TagReview, TagEtc:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the known work statuses.
func ValidStatus(s WorkStatus) bool {
	switch s {
	case StatusDone, StatusInProgress, StatusBlocked:
		return true
	}
	return false
}

// ValidFormat reports whether f is a known scrum output format.
func ValidFormat(f ScrumFormat) bool {
	return f == FormatChat || f == FormatDocument
}
