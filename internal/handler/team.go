package handler

import (
	"net/http"

	"scrumlog/internal/logger"
	"scrumlog/internal/model"
	"scrumlog/internal/service"
	"scrumlog/internal/store"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	team *service.TeamService
	gen  *service.Generator
}

func NewTeamHandler(team *service.TeamService, gen *service.Generator) *TeamHandler {
	return &TeamHandler{team: team, gen: gen}
}

// requireAdmin resolves the caller's team and rejects non-admins. Consolidation
// and team-scrum saves are admin-only.
func (h *TeamHandler) requireAdmin(c *gin.Context) (*model.Team, bool) {
	uid := c.GetInt("user_id")
	team, member, err := h.team.TeamOf(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "팀에 속해 있지 않습니다"})
		return nil, false
	}
	if member.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "팀 관리자만 사용할 수 있습니다"})
		return nil, false
	}
	return team, true
}

// POST /api/team/init
func (h *TeamHandler) Init(c *gin.Context) {
	var req model.InitTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	uid := c.GetInt("user_id")
	team, err := h.team.InitTeam(c.Request.Context(), uid, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("team.init", "uid", uid, "team", team.ID)
	c.JSON(http.StatusOK, team)
}

// GET /api/team/members
func (h *TeamHandler) Members(c *gin.Context) {
	team, _, err := h.team.TeamOf(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "팀에 속해 있지 않습니다"})
		return
	}
	members, err := h.team.Members(c.Request.Context(), team.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": team, "members": members})
}

// GET /api/team/scrums?date=YYYY-MM-DD
func (h *TeamHandler) MemberScrums(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		badRequest(c)
		return
	}
	team, _, err := h.team.TeamOf(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "팀에 속해 있지 않습니다"})
		return
	}
	scrums, err := h.team.MemberScrums(c.Request.Context(), team.ID, date)
	if err != nil {
		fail(c, err)
		return
	}
	if scrums == nil {
		scrums = []model.DailyScrum{}
	}
	c.JSON(http.StatusOK, scrums)
}

// POST /api/team/consolidate (admin)
func (h *TeamHandler) Consolidate(c *gin.Context) {
	var req model.ConsolidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	team, ok := h.requireAdmin(c)
	if !ok {
		return
	}

	scrums, err := h.team.ScrumsOf(c.Request.Context(), team.ID, req.UserIDs, req.Date)
	if err != nil {
		fail(c, err)
		return
	}

	draft, err := h.gen.Consolidate(c.Request.Context(), req.Date, scrums)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("team.consolidated", "team", team.ID, "date", req.Date, "members", len(scrums))
	c.JSON(http.StatusOK, draft)
}

// POST /api/team/scrums (admin; saves the consolidated draft as a team scrum)
func (h *TeamHandler) SaveTeamScrum(c *gin.Context) {
	var req model.SaveTeamScrumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if req.Format == "" {
		req.Format = string(model.FormatChat)
	}

	if !model.ValidFormat(model.ScrumFormat(req.Format)) {
		fail(c, store.Validationf("올바른 형식이 아닙니다: %s", req.Format))
		return
	}

	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	uid := c.GetInt("user_id")
	scrum, err := h.team.SaveTeamScrum(c.Request.Context(), uid, req.Date,
		req.Yesterday, req.Today, req.Blocker, model.ScrumFormat(req.Format))
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("team.scrum.saved", "uid", uid, "date", req.Date)
	c.JSON(http.StatusOK, scrum)
}
