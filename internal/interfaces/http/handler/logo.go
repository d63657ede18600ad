// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"z-logo-ai-api/internal/application/command"
	"z-logo-ai-api/internal/application/workflow"
	"z-logo-ai-api/internal/domain/entity"
	"z-logo-ai-api/internal/domain/repository"
	"z-logo-ai-api/internal/interfaces/http/dto"
	apperrors "z-logo-ai-api/pkg/errors"
	"z-logo-ai-api/pkg/logger"
)

// LogoHandler Logo 画廊处理器
type LogoHandler struct {
	logoRepo    repository.LogoRepository
	coordinator *workflow.Coordinator
	parser      *command.Parser
}

// NewLogoHandler 创建 Logo 处理器
func NewLogoHandler(logoRepo repository.LogoRepository, coordinator *workflow.Coordinator, parser *command.Parser) *LogoHandler {
	return &LogoHandler{
		logoRepo:    logoRepo,
		coordinator: coordinator,
		parser:      parser,
	}
}

// List 列出 Logo
// @Summary Logo 列表
// @Description 按创建时间倒序分页列出已保存的 Logo
// @Tags Logos
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} dto.Response[[]dto.LogoResponse]
// @Router /v1/logos [get]
func (h *LogoHandler) List(c *gin.Context) {
	var query dto.ListLogosQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	offset := (query.Page - 1) * query.PageSize
	logos, total, err := h.logoRepo.List(c.Request.Context(), query.PageSize, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	totalPages := total / query.PageSize
	if total%query.PageSize > 0 {
		totalPages++
	}

	dto.SuccessWithPage(c, dto.NewLogoResponses(logos), &dto.PageMeta{
		Page:       query.Page,
		PageSize:   query.PageSize,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Get 获取单个 Logo
// @Summary 获取 Logo
// @Tags Logos
// @Produce json
// @Param lid path string true "Logo ID"
// @Success 200 {object} dto.Response[dto.LogoResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/logos/{lid} [get]
func (h *LogoHandler) Get(c *gin.Context) {
	logo, err := h.logoRepo.GetByID(c.Request.Context(), c.Param("lid"))
	if err != nil {
		respondError(c, err)
		return
	}
	if logo == nil {
		respondError(c, apperrors.ErrLogoNotFound)
		return
	}

	dto.Success(c, dto.NewLogoResponse(logo))
}

// Delete 删除 Logo
// @Summary 删除 Logo
// @Tags Logos
// @Produce json
// @Param lid path string true "Logo ID"
// @Success 204
// @Router /v1/logos/{lid} [delete]
func (h *LogoHandler) Delete(c *gin.Context) {
	if err := h.logoRepo.Delete(c.Request.Context(), c.Param("lid")); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}

// Edit 对 Logo 执行一次独立编辑
// @Summary 编辑 Logo
// @Description 解析自然语言编辑指令并应用到指定 Logo，产出新 Logo
// @Tags Logos
// @Accept json
// @Produce json
// @Param lid path string true "Logo ID"
// @Param request body dto.EditLogoRequest true "编辑指令"
// @Success 200 {object} dto.Response[dto.GenerationResultResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/logos/{lid}/edits [post]
func (h *LogoHandler) Edit(c *gin.Context) {
	var req dto.EditLogoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	original, err := h.logoRepo.GetByID(ctx, c.Param("lid"))
	if err != nil {
		respondError(c, err)
		return
	}
	if original == nil {
		respondError(c, apperrors.ErrLogoNotFound)
		return
	}

	cmd := h.parser.Parse(ctx, req.Text, original)
	if cmd.Prompt == nil {
		respondError(c, apperrors.ErrPromptCompileFailed)
		return
	}

	result, err := h.coordinator.EditLogo(ctx, original, cmd.Prompt, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	for _, logo := range result.Logos {
		if logo.Status != entity.LogoStatusCompleted {
			continue
		}
		if saveErr := h.logoRepo.Save(ctx, logo); saveErr != nil {
			logger.Warn(ctx, "failed to persist edited logo", "logo_id", logo.ID, "error", saveErr.Error())
		}
	}

	dto.Success(c, dto.NewGenerationResultResponse(result))
}
