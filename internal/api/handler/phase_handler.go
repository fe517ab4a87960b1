package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"optimus-k/backend/internal/service"
	"optimus-k/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PhaseHandler 阶段周计划 HTTP 处理器
type PhaseHandler struct {
	phaseSvc service.PhaseService
}

// NewPhaseHandler 创建 PhaseHandler
func NewPhaseHandler(phaseSvc service.PhaseService) *PhaseHandler {
	return &PhaseHandler{phaseSvc: phaseSvc}
}

// GetWeekly 当前用户某阶段的周计划与进度
// GET /api/v1/phases/:phase/weekly
func (h *PhaseHandler) GetWeekly(c *gin.Context) {
	phase, ok := phaseParam(c)
	if !ok {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.phaseSvc.GetWeeklyProgress(c.Request.Context(), userID, phase)
	if err != nil {
		handlePhaseError(c, err)
		return
	}

	response.OK(c, resp)
}

// Export 导出本人阶段计划
// GET /api/v1/phases/:phase/export
func (h *PhaseHandler) Export(c *gin.Context) {
	h.export(c, "")
}

// ExportMember 导出同组织成员的阶段计划（admin / leader）
// GET /api/v1/members/:user_id/phases/:phase/export
func (h *PhaseHandler) ExportMember(c *gin.Context) {
	targetID := c.Param("user_id")
	if targetID == "" {
		response.BadRequest(c, 10001, "user_id 不能为空")
		return
	}
	h.export(c, targetID)
}

func (h *PhaseHandler) export(c *gin.Context, targetID string) {
	phase, ok := phaseParam(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.phaseSvc.ExportPhasePlan(c.Request.Context(), callerID, targetID, phase)
	if err != nil {
		handlePhaseError(c, err)
		return
	}

	response.Attachment(c, filename, xlsxContentType, buf.Bytes())
}

func handlePhaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 21001, "用户不存在")
	case errors.Is(err, service.ErrInvalidPhase):
		response.BadRequest(c, 21002, "阶段编号必须为正整数")
	case errors.Is(err, service.ErrPhaseNoTasks):
		response.NotFound(c, 21003, "该阶段暂无任务")
	case errors.Is(err, service.ErrPhaseForbidden):
		response.Forbidden(c, 21004, "只能查看本组织成员的阶段计划")
	default:
		response.InternalError(c)
	}
}
