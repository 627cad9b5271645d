package model

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type UserProfile struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type AddItemRequest struct {
	Content string `json:"content" binding:"required"`
	Tag     string `json:"tag" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// UpdateItemRequest carries a partial work-item change; nil fields are untouched.
type UpdateItemRequest struct {
	Content *string `json:"content"`
	Tag     *string `json:"tag"`
	Status  *string `json:"status"`
	Order   *int    `json:"order"`
}

// ReorderRequest lists every item id of the date in its new display order.
type ReorderRequest struct {
	ItemIDs []int `json:"item_ids" binding:"required"`
}

type SaveScrumRequest struct {
	Yesterday []string `json:"yesterday"`
	Today     []string `json:"today"`
	Blocker   string   `json:"blocker"`
	Format    string   `json:"format" binding:"required"`
}

type UpdateScrumFieldRequest struct {
	Field string      `json:"field" binding:"required"`
	Value interface{} `json:"value"`
}

// ScrumDraft is the validated shape of a daily-scrum generation response.
type ScrumDraft struct {
	Yesterday []string `json:"yesterday"`
	Today     []string `json:"today"`
	Blocker   string   `json:"blocker"`
}

// WeeklyDraft is the validated shape of a weekly-review generation response.
type WeeklyDraft struct {
	Summary       []string `json:"summary"`
	Highlights    []string `json:"highlights"`
	Improvements  []string `json:"improvements"`
	NextWeekGoals []string `json:"nextWeekGoals"`
}

type ConsolidateRequest struct {
	Date    string `json:"date" binding:"required"`
	UserIDs []int  `json:"user_ids" binding:"required"`
	Format  string `json:"format"`
}

type SaveTeamScrumRequest struct {
	Date      string   `json:"date" binding:"required"`
	Yesterday []string `json:"yesterday"`
	Today     []string `json:"today"`
	Blocker   string   `json:"blocker"`
	Format    string   `json:"format"`
}

type GenerateWeeklyRequest struct {
	WeekStart string `json:"week_start" binding:"required"`
	WeekEnd   string `json:"week_end" binding:"required"`
}

type InitTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

type SlackSendRequest struct {
	Date       string `json:"date"`
	Text       string `json:"text"`
	WebhookURL string `json:"webhook_url"`
}

type NotionUploadRequest struct {
	Date string `json:"date" binding:"required"`
}

// NotionUploadResult reports the mirror outcome; Warning is set on partial failure.
type NotionUploadResult struct {
	URL     string `json:"url"`
	Warning string `json:"warning,omitempty"`
}

type TeamMemberInfo struct {
	UserID      int            `json:"user_id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	Role        TeamMemberRole `json:"role"`
}
