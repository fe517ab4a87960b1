package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"optimus-k/backend/internal/dto"
	"optimus-k/backend/internal/service"
	"optimus-k/backend/pkg/response"
)

// AvailabilityHandler 空闲声明模块 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// GetWeek 获取当前用户某周的空闲声明
// GET /api/v1/availability?week_start=2025-01-06
func (h *AvailabilityHandler) GetWeek(c *gin.Context) {
	var q dto.WeekQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "week_start 必填，格式 YYYY-MM-DD")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.availabilitySvc.GetWeek(c.Request.Context(), userID, q.WeekStart)
	if err != nil {
		handleAvailabilityError(c, err)
		return
	}

	response.OK(c, resp)
}

// SaveWeek 保存当前用户某周的空闲声明
// PUT /api/v1/availability
func (h *AvailabilityHandler) SaveWeek(c *gin.Context) {
	var req dto.SaveAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.availabilitySvc.SaveWeek(c.Request.Context(), userID, &req)
	if err != nil {
		handleAvailabilityError(c, err)
		return
	}

	response.OK(c, resp)
}

func handleAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWeekStart):
		response.BadRequest(c, 20003, "week_start 格式无效")
	case errors.Is(err, service.ErrInvalidAvailability):
		response.BadRequest(c, 20002, err.Error())
	default:
		response.InternalError(c)
	}
}
