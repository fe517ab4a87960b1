package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"optimus-k/backend/internal/dto"
	"optimus-k/backend/internal/service"
	pkgerrors "optimus-k/backend/pkg/errors"
	"optimus-k/backend/pkg/response"
)

// SlotHandler 时段模块 HTTP 处理器
type SlotHandler struct {
	slotSvc service.SlotService
}

// NewSlotHandler 创建 SlotHandler
func NewSlotHandler(slotSvc service.SlotService) *SlotHandler {
	return &SlotHandler{slotSvc: slotSvc}
}

// FindAlternatives 查找候选时段
// POST /api/v1/slots/alternatives
func (h *SlotHandler) FindAlternatives(c *gin.Context) {
	var req dto.FindSlotsRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.slotSvc.FindAlternativeSlots(c.Request.Context(), &req, callerID)
	if err != nil {
		handleSlotError(c, err)
		return
	}

	response.OK(c, resp)
}

// Book 确认预约（或移动已有预约）
// POST /api/v1/slots/book
func (h *SlotHandler) Book(c *gin.Context) {
	var req dto.BookSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.slotSvc.BookSlot(c.Request.Context(), &req, callerID)
	if err != nil {
		handleSlotError(c, err)
		return
	}

	if req.RescheduleID != "" {
		response.OK(c, resp)
		return
	}
	response.Created(c, resp)
}

// ListWeek 当前用户某周的预约
// GET /api/v1/slots?week_start=2025-01-06
func (h *SlotHandler) ListWeek(c *gin.Context) {
	var q dto.WeekQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "week_start 必填，格式 YYYY-MM-DD")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.slotSvc.ListWeekSlots(c.Request.Context(), userID, q.WeekStart)
	if err != nil {
		handleSlotError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ExportCalendar 导出某周预约为 .ics
// GET /api/v1/slots/calendar.ics?week_start=2025-01-06
func (h *SlotHandler) ExportCalendar(c *gin.Context) {
	var q dto.WeekQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "week_start 必填，格式 YYYY-MM-DD")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	body, filename, err := h.slotSvc.ExportWeekICS(c.Request.Context(), userID, q.WeekStart)
	if err != nil {
		handleSlotError(c, err)
		return
	}

	response.Attachment(c, filename, "text/calendar; charset=utf-8", body)
}

func handleSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAvailabilityNotConfigured):
		response.NotFound(c, 20001, "当前用户该周尚未声明空闲时间")
	case errors.Is(err, service.ErrInvalidWeekStart):
		response.BadRequest(c, 20003, "日期格式无效")
	case errors.Is(err, service.ErrSelfCollaboration):
		response.BadRequest(c, 20004, "协作者不能是本人")
	case errors.Is(err, service.ErrCollaboratorNotFound):
		response.NotFound(c, 20005, "协作者不存在")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 20006, "开始时间必须早于结束时间")
	case errors.Is(err, service.ErrSlotConflict):
		response.Conflict(c, 20007, "所选时段与已有预约冲突")
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 20008, "预约不存在")
	case errors.Is(err, service.ErrSlotForbidden):
		response.Forbidden(c, 20009, "只能调整本人发起的预约")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 20010, "预约已被修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
