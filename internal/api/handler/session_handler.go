package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"optimus-k/backend/internal/api/middleware"
	"optimus-k/backend/internal/service"
	"optimus-k/backend/pkg/response"
)

// SessionHandler 会话 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Revoke 吊销当前请求使用的 Token（登出）
// POST /api/v1/session/revoke
func (h *SessionHandler) Revoke(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	expiresAt, _ := c.Get(middleware.CtxTokenExpiresAt)
	exp, _ := expiresAt.(time.Time)

	err := h.sessionSvc.Revoke(c.Request.Context(), userID, c.GetString(middleware.CtxTokenID), exp)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenIDMissing):
			response.BadRequest(c, 10006, "Token 缺少 jti，无法吊销")
		case errors.Is(err, service.ErrRevocationUnavailable):
			response.Error(c, http.StatusServiceUnavailable, 10007, "吊销服务暂不可用")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
