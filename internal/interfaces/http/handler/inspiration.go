// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"z-logo-ai-api/internal/application/inspiration"
	"z-logo-ai-api/internal/interfaces/http/dto"
)

// InspirationHandler 灵感检索处理器
type InspirationHandler struct {
	service *inspiration.Service
}

// NewInspirationHandler 创建灵感处理器
func NewInspirationHandler(service *inspiration.Service) *InspirationHandler {
	return &InspirationHandler{service: service}
}

// Index 索引灵感 Logo
// @Summary 索引灵感 Logo
// @Description 将一条策展的灵感 Logo 入库并写入向量索引
// @Tags Inspirations
// @Accept json
// @Produce json
// @Param request body dto.IndexInspirationRequest true "灵感内容"
// @Success 201 {object} dto.Response[dto.InspirationResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/inspirations [post]
func (h *InspirationHandler) Index(c *gin.Context) {
	var req dto.IndexInspirationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	logo, err := h.service.Index(c.Request.Context(), req.ToEntity())
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Created(c, dto.NewInspirationResponse(logo))
}

// Search 相似检索
// @Summary 灵感相似检索
// @Description 按描述文本检索相似的灵感 Logo
// @Tags Inspirations
// @Accept json
// @Produce json
// @Param request body dto.SearchInspirationsRequest true "检索请求"
// @Success 200 {object} dto.Response[[]dto.InspirationMatchResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/inspirations/search [post]
func (h *InspirationHandler) Search(c *gin.Context) {
	var req dto.SearchInspirationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	matches, err := h.service.Search(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewInspirationMatchResponses(matches))
}
