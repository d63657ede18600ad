// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"z-logo-ai-api/internal/application/workflow"
	"z-logo-ai-api/internal/domain/entity"
	"z-logo-ai-api/internal/infrastructure/persistence/redis"
	"z-logo-ai-api/internal/interfaces/http/dto"
)

// streamPollInterval 进度轮询间隔
const streamPollInterval = 500 * time.Millisecond

// StreamHandler SSE 进度流处理器
type StreamHandler struct {
	coordinator *workflow.Coordinator
	cache       *redis.Cache
}

// NewStreamHandler 创建进度流处理器
func NewStreamHandler(coordinator *workflow.Coordinator, cache *redis.Cache) *StreamHandler {
	return &StreamHandler{
		coordinator: coordinator,
		cache:       cache,
	}
}

// StreamProgress 订阅工作流进度
// @Summary 订阅生成进度（SSE）
// @Description 以 Server-Sent Events 推送进度快照，终态或客户端断开后结束
// @Tags Generations
// @Produce text/event-stream
// @Param wid path string true "工作流 ID"
// @Success 200 {string} string "SSE stream"
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/generations/{wid}/stream [get]
func (h *StreamHandler) StreamProgress(c *gin.Context) {
	workflowID := c.Param("wid")

	// 先确认工作流可见，否则直接 404
	if _, err := h.snapshot(c.Request.Context(), workflowID); err != nil {
		respondError(c, err)
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()

	var lastPercentage = -1
	var lastStatus entity.GenerationStatus

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ticker.C:
			progress, err := h.snapshot(c.Request.Context(), workflowID)
			if err != nil {
				// 工作流已被取消或快照过期
				c.SSEvent("error", gin.H{"message": err.Error()})
				return false
			}

			// 仅在进度变化时推送，避免刷屏
			if progress.Percentage != lastPercentage || progress.Status != lastStatus {
				lastPercentage = progress.Percentage
				lastStatus = progress.Status
				c.SSEvent("progress", dto.NewProgressResponse(progress))
			}

			if progress.IsTerminal() {
				c.SSEvent("done", gin.H{
					"workflow_id": progress.WorkflowID,
					"status":      progress.Status,
				})
				return false
			}
			return true

		case <-c.Request.Context().Done():
			// 客户端断开
			return false
		}
	})
}

// snapshot 先查活动工作流，再回退到缓存快照
func (h *StreamHandler) snapshot(ctx context.Context, workflowID string) (*entity.GenerationProgress, error) {
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
