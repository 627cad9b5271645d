package handler

import (
	"net/http"

	"scrumlog/internal/format"
	"scrumlog/internal/logger"
	"scrumlog/internal/model"
	"scrumlog/internal/service"
	"scrumlog/internal/store"

	"github.com/gin-gonic/gin"
)

type ExternalHandler struct {
	mgr    *store.Manager
	slack  *service.SlackService
	notion *service.NotionService
}

func NewExternalHandler(mgr *store.Manager, slack *service.SlackService, notion *service.NotionService) *ExternalHandler {
	return &ExternalHandler{mgr: mgr, slack: slack, notion: notion}
}

// POST /api/slack/send
//
// Explicit text wins; otherwise the date's scrum is rendered in chat form.
func (h *ExternalHandler) SlackSend(c *gin.Context) {
	var req model.SlackSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	text := req.Text
	if text == "" {
		if req.Date == "" {
			fail(c, store.Validationf("전송할 내용이 없습니다"))
			return
		}
		sess := h.mgr.Session(c.GetInt("user_id"))
		scrum := sess.Scrums.GetScrum(req.Date)
		if scrum == nil {
			if _, err := sess.Scrums.FetchScrums(c.Request.Context()); err != nil {
				fail(c, err)
				return
			}
			scrum = sess.Scrums.GetScrum(req.Date)
		}
		if scrum == nil {
			fail(c, store.ErrNotFound)
			return
		}
		text = format.ChatText(scrum)
	}

	if err := h.slack.Send(c.Request.Context(), req.WebhookURL, text); err != nil {
		fail(c, err)
		return
	}
	logger.Info("slack.sent", "uid", c.GetInt("user_id"), "date", req.Date)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /api/notion/upload
func (h *ExternalHandler) NotionUpload(c *gin.Context) {
	var req model.NotionUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	sess := h.mgr.Session(c.GetInt("user_id"))
	log := sess.Worklogs.GetWorkLog(req.Date)
	if log == nil {
		fetched, err := sess.Worklogs.FetchWorkLog(c.Request.Context(), req.Date)
		if err != nil {
			fail(c, err)
			return
		}
		log = fetched
	}

	var items []model.WorkItem
	if log != nil {
		items = log.Items
	}
	result, err := h.notion.Upload(c.Request.Context(), req.Date, items)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("notion.uploaded", "uid", sess.UserID, "date", req.Date, "items", len(items))
	c.JSON(http.StatusOK, result)
}
