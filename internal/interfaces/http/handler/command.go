// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"z-logo-ai-api/internal/application/command"
	"z-logo-ai-api/internal/domain/entity"
	"z-logo-ai-api/internal/domain/repository"
	"z-logo-ai-api/internal/interfaces/http/dto"
)

// CommandHandler 编辑指令处理器
type CommandHandler struct {
	parser   *command.Parser
	logoRepo repository.LogoRepository
}

// NewCommandHandler 创建指令处理器
func NewCommandHandler(parser *command.Parser, logoRepo repository.LogoRepository) *CommandHandler {
	return &CommandHandler{
		parser:   parser,
		logoRepo: logoRepo,
	}
}

// Parse 解析编辑指令
// @Summary 解析编辑指令
// @Description 将自然语言编辑指令解析为结构化指令；解析永不失败，低置信度时返回兜底指令
// @Tags Commands
// @Accept json
// @Produce json
// @Param request body dto.ParseCommandRequest true "解析请求"
// @Success 200 {object} dto.Response[dto.EditCommandResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/commands/parse [post]
func (h *CommandHandler) Parse(c *gin.Context) {
	var req dto.ParseCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	var current *entity.GeneratedLogo
	if req.LogoID != "" {
		logo, err := h.logoRepo.GetByID(ctx, req.LogoID)
		if err != nil {
			respondError(c, err)
			return
		}
		current = logo
	}

	cmd := h.parser.Parse(ctx, req.Text, current)
	dto.Success(c, dto.NewEditCommandResponse(cmd))
}

// Suggestions 获取编辑建议
// @Summary 获取编辑建议
// @Description 返回确定性的编辑建议列表，提供 logo_id 时附加行业相关建议
// @Tags Commands
// @Produce json
// @Param logo_id query string false "Logo ID"
// @Success 200 {object} dto.Response[dto.SuggestionsResponse]
// @Router /v1/commands/suggestions [get]
func (h *CommandHandler) Suggestions(c *gin.Context) {
	var query dto.SuggestionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	var current *entity.GeneratedLogo
	if query.LogoID != "" {
		logo, err := h.logoRepo.GetByID(c.Request.Context(), query.LogoID)
		if err != nil {
			respondError(c, err)
			return
		}
		current = logo
	}

	dto.Success(c, dto.SuggestionsResponse{
		Suggestions: command.Suggestions(current),
	})
}
