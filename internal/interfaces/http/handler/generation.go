// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"z-logo-ai-api/internal/application/workflow"
	"z-logo-ai-api/internal/domain/entity"
	"z-logo-ai-api/internal/domain/repository"
	"z-logo-ai-api/internal/infrastructure/persistence/redis"
	"z-logo-ai-api/internal/interfaces/http/dto"
	apperrors "z-logo-ai-api/pkg/errors"
	"z-logo-ai-api/pkg/logger"
)

// GenerationHandler 生成工作流处理器
type GenerationHandler struct {
	coordinator *workflow.Coordinator
	logoRepo    repository.LogoRepository
	cache       *redis.Cache
}

// NewGenerationHandler 创建生成处理器
func NewGenerationHandler(coordinator *workflow.Coordinator, logoRepo repository.LogoRepository, cache *redis.Cache) *GenerationHandler {
	return &GenerationHandler{
		coordinator: coordinator,
		logoRepo:    logoRepo,
		cache:       cache,
	}
}

// Generate 生成 Logo
// @Summary 生成 Logo
// @Description 按品牌属性生成一批候选 Logo，进度可通过 progress 接口或 SSE 订阅
// @Tags Generations
// @Accept json
// @Produce json
// @Param request body dto.GenerateLogosRequest true "生成请求"
// @Success 200 {object} dto.Response[dto.GenerationResultResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/generations [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerateLogosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()

	result, err := h.coordinator.GenerateLogos(ctx, req.ToEntity(), h.progressSink(ctx))
	if err != nil {
		respondError(c, err)
		return
	}

	h.persistCompleted(ctx, result.Logos)
	dto.Success(c, dto.NewGenerationResultResponse(result))
}

// GetProgress 查询工作流进度
// @Summary 查询生成进度
// @Description 查询进行中或近期完成的工作流进度快照
// @Tags Generations
// @Produce json
// @Param wid path string true "工作流 ID"
// @Success 200 {object} dto.Response[dto.ProgressResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/generations/{wid}/progress [get]
func (h *GenerationHandler) GetProgress(c *gin.Context) {
	workflowID := c.Param("wid")

	progress, err := h.loadProgress(c.Request.Context(), workflowID)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewProgressResponse(progress))
}

// Cancel 取消工作流
// @Summary 取消生成
// @Description 取消工作流：后续进度更新被抑制，已派发的调用随上下文终止
// @Tags Generations
// @Produce json
// @Param wid path string true "工作流 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/generations/{wid} [delete]
func (h *GenerationHandler) Cancel(c *gin.Context) {
	workflowID := c.Param("wid")

	if !h.coordinator.CancelGeneration(c.Request.Context(), workflowID) {
		dto.NotFound(c, "workflow not found or already finished")
		return
	}

	dto.NoContent(c)
}

// Variations 生成变体
// @Summary 生成变体
// @Description 基于既有 Logo 生成若干固定模板变换的变体
// @Tags Logos
// @Accept json
// @Produce json
// @Param lid path string true "Logo ID"
// @Param request body dto.VariationsRequest true "变体请求"
// @Success 200 {object} dto.Response[dto.GenerationResultResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/logos/{lid}/variations [post]
func (h *GenerationHandler) Variations(c *gin.Context) {
	var req dto.VariationsRequest
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

	result, err := h.coordinator.GenerateVariations(ctx, original, req.Count, h.progressSink(ctx))
	if err != nil {
		respondError(c, err)
		return
	}

	h.persistCompleted(ctx, result.Logos)
	dto.Success(c, dto.NewGenerationResultResponse(result))
}

// loadProgress 先查活动工作流，再回退到缓存快照
func (h *GenerationHandler) loadProgress(ctx context.Context, workflowID string) (*entity.GenerationProgress, error) {
	progress, err := h.coordinator.GetGenerationProgress(workflowID)
	if err == nil {
		return progress, nil
	}

	if h.cache != nil {
		cached, cacheErr := h.cache.LoadProgress(ctx, workflowID)
		if cacheErr == nil && cached != nil {
			return cached, nil
		}
	}
	return nil, err
}

// progressSink 返回进度回调：写入缓存快照供跨请求查询
func (h *GenerationHandler) progressSink(ctx context.Context) workflow.ProgressCallback {
	if h.cache == nil {
		return nil
	}
	return func(progress *entity.GenerationProgress) {
		if err := h.cache.SaveProgress(ctx, progress); err != nil {
			logger.Warn(ctx, "failed to cache progress snapshot", "workflow_id", progress.WorkflowID, "error", err.Error())
		}
	}
}

// persistCompleted 持久化成功生成的 Logo，失败仅记日志
func (h *GenerationHandler) persistCompleted(ctx context.Context, logos []*entity.GeneratedLogo) {
	for _, logo := range logos {
		if logo.Status != entity.LogoStatusCompleted {
			continue
		}
		if err := h.logoRepo.Save(ctx, logo); err != nil {
			logger.Warn(ctx, "failed to persist logo", "logo_id", logo.ID, "error", err.Error())
		}
	}
}
