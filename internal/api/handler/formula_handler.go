package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"optimus-k/backend/internal/dto"
	"optimus-k/backend/internal/service"
	"optimus-k/backend/pkg/response"
)

// FormulaHandler 任务配额 HTTP 处理器
type FormulaHandler struct {
	formulaSvc service.FormulaService
}

// NewFormulaHandler 创建 FormulaHandler
func NewFormulaHandler(formulaSvc service.FormulaService) *FormulaHandler {
	return &FormulaHandler{formulaSvc: formulaSvc}
}

// Preview 按参数预览配额
// POST /api/v1/formula/preview
func (h *FormulaHandler) Preview(c *gin.Context) {
	var req dto.FormulaPreviewRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.formulaSvc.Preview(c.Request.Context(), &req)
	if err != nil {
		handleFormulaError(c, err)
		return
	}

	response.OK(c, resp)
}

// Me 当前用户的配额
// GET /api/v1/formula/me
func (h *FormulaHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.formulaSvc.PreviewForUser(c.Request.Context(), userID)
	if err != nil {
		handleFormulaError(c, err)
		return
	}

	response.OK(c, resp)
}

func handleFormulaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 22001, "用户不存在")
	case errors.Is(err, service.ErrOrganizationNotFound):
		response.NotFound(c, 22002, "所属组织不存在")
	default:
		response.InternalError(c)
	}
}
