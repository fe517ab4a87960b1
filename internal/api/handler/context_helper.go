package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"optimus-k/backend/internal/api/middleware"
	"optimus-k/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// bindJSON 绑定请求体，失败时写入 400（请求体超限时写入 413）
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return false
		}
		response.BadRequest(c, 10001, "参数校验失败")
		return false
	}
	return true
}

// phaseParam 解析路径中的 :phase
func phaseParam(c *gin.Context) (int, bool) {
	phase, err := strconv.Atoi(c.Param("phase"))
	if err != nil || phase < 1 {
		response.BadRequest(c, 21002, "阶段编号必须为正整数")
		return 0, false
	}
	return phase, true
}
