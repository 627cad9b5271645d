package handler

import (
	"errors"
	"net/http"

	"scrumlog/internal/logger"
	"scrumlog/internal/service"
	"scrumlog/internal/store"

	"github.com/gin-gonic/gin"
)

// fail maps the error taxonomy to an HTTP status and a short localized
// message. Internal details go to the log, never to the client.
func fail(c *gin.Context, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "대상을 찾을 수 없습니다"})
	case errors.Is(err, store.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다"})
	case errors.Is(err, service.ErrGenerating):
		c.JSON(http.StatusConflict, gin.H{"error": "이미 생성 중입니다. 잠시 후 다시 시도해주세요"})
	case errors.Is(err, service.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "외부 서비스 설정이 누락되었습니다"})
	case errors.Is(err, service.ErrExternal):
		c.JSON(http.StatusBadGateway, gin.H{"error": "외부 서비스 요청에 실패했습니다"})
	case errors.Is(err, store.ErrRemote):
		c.JSON(http.StatusBadGateway, gin.H{"error": "저장소 요청에 실패했습니다"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "요청 처리에 실패했습니다"})
	}
	logger.Warn("request failed", "path", c.FullPath(), "err", err)
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다"})
}
