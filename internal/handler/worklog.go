package handler

import (
	"net/http"
	"strconv"

	"scrumlog/internal/logger"
	"scrumlog/internal/model"
	"scrumlog/internal/store"

	"github.com/gin-gonic/gin"
)

type WorklogHandler struct {
	mgr *store.Manager
}

func NewWorklogHandler(mgr *store.Manager) *WorklogHandler {
	return &WorklogHandler{mgr: mgr}
}

func (h *WorklogHandler) session(c *gin.Context) *store.Session {
	return h.mgr.Session(c.GetInt("user_id"))
}

// GET /api/worklogs
func (h *WorklogHandler) List(c *gin.Context) {
	sess := h.session(c)
	logs, err := sess.Worklogs.FetchWorkLogs(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if logs == nil {
		logs = []model.WorkLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// GET /api/worklogs/:date
func (h *WorklogHandler) Get(c *gin.Context) {
	sess := h.session(c)
	date := c.Param("date")

	log := sess.Worklogs.GetWorkLog(date)
	if log == nil {
		fetched, err := sess.Worklogs.FetchWorkLog(c.Request.Context(), date)
		if err != nil {
			fail(c, err)
			return
		}
		log = fetched
	}
	if log == nil {
		fail(c, store.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, log)
}

// POST /api/worklogs/:date/items
func (h *WorklogHandler) AddItem(c *gin.Context) {
	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	sess := h.session(c)
	date := c.Param("date")
	item, err := sess.Worklogs.AddWorkItem(c.Request.Context(), date, req.Content,
		model.WorkTag(req.Tag), model.WorkStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("worklog.item.added", "uid", sess.UserID, "date", date, "item", item.ID)
	c.JSON(http.StatusOK, item)
}

// PUT /api/worklogs/:date/items/:id
func (h *WorklogHandler) UpdateItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c)
		return
	}
	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	patch := store.ItemPatch{Content: req.Content, Order: req.Order}
	if req.Tag != nil {
		tag := model.WorkTag(*req.Tag)
		patch.Tag = &tag
	}
	if req.Status != nil {
		status := model.WorkStatus(*req.Status)
		patch.Status = &status
	}

	sess := h.session(c)
	date := c.Param("date")
	if err := sess.Worklogs.UpdateWorkItem(c.Request.Context(), date, itemID, patch); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DELETE /api/worklogs/:date/items/:id
func (h *WorklogHandler) DeleteItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c)
		return
	}

	sess := h.session(c)
	date := c.Param("date")
	if err := sess.Worklogs.DeleteWorkItem(c.Request.Context(), date, itemID); err != nil {
		fail(c, err)
		return
	}
	logger.Info("worklog.item.deleted", "uid", sess.UserID, "date", date, "item", itemID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PUT /api/worklogs/:date/items
func (h *WorklogHandler) Reorder(c *gin.Context) {
	var req model.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	sess := h.session(c)
	date := c.Param("date")
	if err := sess.Worklogs.ReorderWorkItems(c.Request.Context(), date, req.ItemIDs); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Worklogs.GetWorkLog(date))
}

// DELETE /api/worklogs/:date
func (h *WorklogHandler) Delete(c *gin.Context) {
	sess := h.session(c)
	date := c.Param("date")
	if err := sess.Worklogs.DeleteWorkLog(c.Request.Context(), date); err != nil {
		fail(c, err)
		return
	}
	logger.Info("worklog.deleted", "uid", sess.UserID, "date", date)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
