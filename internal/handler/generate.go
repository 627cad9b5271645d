package handler

import (
	"net/http"

	"scrumlog/internal/logger"
	"scrumlog/internal/model"
	"scrumlog/internal/service"
	"scrumlog/internal/store"

	"github.com/gin-gonic/gin"
)

type GenerateHandler struct {
	mgr    *store.Manager
	gen    *service.Generator
	weekly *service.WeeklyService
}

func NewGenerateHandler(mgr *store.Manager, gen *service.Generator, weekly *service.WeeklyService) *GenerateHandler {
	return &GenerateHandler{mgr: mgr, gen: gen, weekly: weekly}
}

// POST /api/scrums/:date/generate
func (h *GenerateHandler) GenerateScrum(c *gin.Context) {
	var req struct {
		Format string `json:"format"`
	}
	// Body is optional; the format defaults to chat.
	_ = c.ShouldBindJSON(&req)
	if req.Format == "" {
		req.Format = string(model.FormatChat)
	}
	if !model.ValidFormat(model.ScrumFormat(req.Format)) {
		fail(c, store.Validationf("올바른 형식이 아닙니다: %s", req.Format))
		return
	}

	sess := h.mgr.Session(c.GetInt("user_id"))
	date := c.Param("date")
	scrum, err := h.gen.GenerateScrum(c.Request.Context(), sess, date, model.ScrumFormat(req.Format))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, scrum)
}

// GET /api/scrums/:date/generate
func (h *GenerateHandler) ScrumState(c *gin.Context) {
	key := service.ScrumTarget(c.GetInt("user_id"), c.Param("date"))
	c.JSON(http.StatusOK, gin.H{"state": h.gen.State(key)})
}

// POST /api/weekly/generate
func (h *GenerateHandler) GenerateWeekly(c *gin.Context) {
	var req model.GenerateWeeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	uid := c.GetInt("user_id")
	scrums, err := h.weekly.ScrumsInRange(c.Request.Context(), uid, req.WeekStart, req.WeekEnd)
	if err != nil {
		fail(c, err)
		return
	}

	draft, err := h.gen.GenerateWeekly(c.Request.Context(), uid, req.WeekStart, req.WeekEnd, scrums)
	if err != nil {
		fail(c, err)
		return
	}

	review, err := h.weekly.Save(c.Request.Context(), &model.WeeklyReview{
		UserID:       uid,
		WeekStart:    req.WeekStart,
		WeekEnd:      req.WeekEnd,
		Summary:      model.StringList(draft.Summary),
		Highlights:   model.StringList(draft.Highlights),
		Improvements: model.StringList(draft.Improvements),
		NextWeekGoal: model.StringList(draft.NextWeekGoals),
	})
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("weekly.generated", "uid", uid, "week_start", req.WeekStart, "scrums", len(scrums))
	c.JSON(http.StatusOK, review)
}

// GET /api/weekly
func (h *GenerateHandler) ListWeekly(c *gin.Context) {
	reviews, err := h.weekly.List(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	if reviews == nil {
		reviews = []model.WeeklyReview{}
	}
	c.JSON(http.StatusOK, reviews)
}
