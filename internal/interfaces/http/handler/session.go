// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"z-logo-ai-api/internal/application/session"
	"z-logo-ai-api/internal/interfaces/http/dto"
)

// SessionHandler 编辑会话处理器
type SessionHandler struct {
	manager *session.Manager
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// Create 开启编辑会话
// @Summary 开启编辑会话
// @Description 基于一个已保存的 Logo 开启连续编辑会话
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest true "开启请求"
// @Success 201 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	sess, err := h.manager.StartSession(c.Request.Context(), req.LogoID)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Created(c, dto.NewSessionResponse(sess))
}

// Get 获取会话
// @Summary 获取编辑会话
// @Description 获取会话当前状态与完整操作历史
// @Tags Sessions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.manager.GetSession(c.Request.Context(), c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewSessionResponse(sess))
}

// ExecuteCommand 会话内执行编辑指令
// @Summary 执行编辑指令
// @Description 在会话内执行一条自然语言编辑指令；成功时当前 Logo 被替换，失败操作以 failed 入史
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param request body dto.ExecuteCommandRequest true "编辑指令"
// @Success 200 {object} dto.Response[dto.ExecuteCommandResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/edits [post]
func (h *SessionHandler) ExecuteCommand(c *gin.Context) {
	var req dto.ExecuteCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	sess, op, err := h.manager.ExecuteCommand(c.Request.Context(), c.Param("sid"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.ExecuteCommandResponse{
		Session:   dto.NewSessionResponse(sess),
		Operation: dto.NewEditOperationResponse(op),
	})
}

// Variations 会话内生成候选编辑
// @Summary 生成候选编辑
// @Description 按同一指令生成多个措辞轮换的候选编辑，不替换当前 Logo
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param request body dto.SessionVariationsRequest true "候选编辑请求"
// @Success 200 {object} dto.Response[dto.GenerationResultResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/variations [post]
func (h *SessionHandler) Variations(c *gin.Context) {
	var req dto.SessionVariationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	result, err := h.manager.GenerateEditingVariations(c.Request.Context(), c.Param("sid"), req.Text, req.Count)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewGenerationResultResponse(result))
}

// Select 选定候选 Logo
// @Summary 选定候选 Logo
// @Description 将某个候选 Logo 显式选为会话当前 Logo
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param request body dto.SelectLogoRequest true "选定请求"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/select [post]
func (h *SessionHandler) Select(c *gin.Context) {
	var req dto.SelectLogoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	sess, err := h.manager.SelectLogo(c.Request.Context(), c.Param("sid"), req.LogoID)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewSessionResponse(sess))
}
