package handler

import (
	"net/http"

	"scrumlog/internal/format"
	"scrumlog/internal/logger"
	"scrumlog/internal/model"
	"scrumlog/internal/store"

	"github.com/gin-gonic/gin"
)

type ScrumHandler struct {
	mgr *store.Manager
}

func NewScrumHandler(mgr *store.Manager) *ScrumHandler {
	return &ScrumHandler{mgr: mgr}
}

func (h *ScrumHandler) session(c *gin.Context) *store.Session {
	return h.mgr.Session(c.GetInt("user_id"))
}

// GET /api/scrums
func (h *ScrumHandler) List(c *gin.Context) {
	sess := h.session(c)
	scrums, err := sess.Scrums.FetchScrums(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if scrums == nil {
		scrums = []model.DailyScrum{}
	}
	c.JSON(http.StatusOK, scrums)
}

// GET /api/scrums/:date
func (h *ScrumHandler) Get(c *gin.Context) {
	sess := h.session(c)
	date := c.Param("date")

	scrum := sess.Scrums.GetScrum(date)
	if scrum == nil {
		if _, err := sess.Scrums.FetchScrums(c.Request.Context()); err != nil {
			fail(c, err)
			return
		}
		scrum = sess.Scrums.GetScrum(date)
	}
	if scrum == nil {
		fail(c, store.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, scrum)
}

// PUT /api/scrums/:date
func (h *ScrumHandler) Save(c *gin.Context) {
	var req model.SaveScrumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	sess := h.session(c)
	date := c.Param("date")
	scrum, err := sess.Scrums.SaveScrum(c.Request.Context(), date, store.ScrumFields{
		Yesterday: req.Yesterday,
		Today:     req.Today,
		Blocker:   req.Blocker,
		Format:    model.ScrumFormat(req.Format),
	})
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("scrum.saved", "uid", sess.UserID, "date", date, "share_id", scrum.ShareID)
	c.JSON(http.StatusOK, scrum)
}

// PATCH /api/scrums/:date
func (h *ScrumHandler) UpdateField(c *gin.Context) {
	var req model.UpdateScrumFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	sess := h.session(c)
	date := c.Param("date")
	if err := sess.Scrums.UpdateScrumField(c.Request.Context(), date, req.Field, req.Value); err != nil {
		fail(c, err)
		return
	}
	// Absent record is a silent no-op; either way the current cache state
	// is the response.
	c.JSON(http.StatusOK, gin.H{"ok": true, "scrum": sess.Scrums.GetScrum(date)})
}

// DELETE /api/scrums/:date
func (h *ScrumHandler) Delete(c *gin.Context) {
	sess := h.session(c)
	date := c.Param("date")
	if err := sess.Scrums.DeleteScrum(c.Request.Context(), date); err != nil {
		fail(c, err)
		return
	}
	logger.Info("scrum.deleted", "uid", sess.UserID, "date", date)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/scrums/:date/render?format=chat|document
func (h *ScrumHandler) Render(c *gin.Context) {
	sess := h.session(c)
	date := c.Param("date")

	scrum := sess.Scrums.GetScrum(date)
	if scrum == nil {
		if _, err := sess.Scrums.FetchScrums(c.Request.Context()); err != nil {
			fail(c, err)
			return
		}
		scrum = sess.Scrums.GetScrum(date)
	}
	if scrum == nil {
		fail(c, store.ErrNotFound)
		return
	}

	if f := c.Query("format"); f != "" {
		if !model.ValidFormat(model.ScrumFormat(f)) {
			fail(c, store.Validationf("올바른 형식이 아닙니다: %s", f))
			return
		}
		scrum.Format = model.ScrumFormat(f)
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "format": scrum.Format, "text": format.Render(scrum)})
}

// GET /api/share/:shareId (public: the share token is the only key)
func (h *ScrumHandler) Shared(c *gin.Context) {
	scrum, err := h.mgr.SharedScrum(c.Request.Context(), c.Param("shareId"))
	if err != nil {
		fail(c, err)
		return
	}
	// Anonymous read: owner identity stays private.
	scrum.UserID = 0
	c.JSON(http.StatusOK, gin.H{"scrum": scrum, "text": format.Render(scrum)})
}
