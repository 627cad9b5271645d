package handler

import (
	"net/http"

	"scrumlog/internal/logger"
	"scrumlog/internal/middleware"
	"scrumlog/internal/model"
	"scrumlog/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *service.AuthService
	secret []byte
}

func NewAuthHandler(auth *service.AuthService, secret []byte) *AuthHandler {
	return &AuthHandler{auth: auth, secret: secret}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login.failed", "email", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "이메일 또는 비밀번호가 올바르지 않습니다"})
		return
	}

	logger.Info("login.ok", "uid", u.ID, "email", u.Email)

	token, _ := middleware.NewToken(h.secret, u.ID, u.DisplayName)
	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User:  model.UserProfile{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		logger.Warn("register.failed", "email", req.Email, "err", err)
		c.JSON(http.StatusConflict, gin.H{"error": "가입에 실패했습니다. 이미 등록된 이메일일 수 있습니다"})
		return
	}

	logger.Info("register.ok", "uid", u.ID, "email", u.Email)

	token, _ := middleware.NewToken(h.secret, u.ID, u.DisplayName)
	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User:  model.UserProfile{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName},
	})
}
