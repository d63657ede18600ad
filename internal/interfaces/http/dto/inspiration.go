package dto

import (
	"time"

	"z-logo-ai-api/internal/domain/entity"
)

// IndexInspirationRequest 灵感索引请求
type IndexInspirationRequest struct {
	Title       string   `json:"title" binding:"max=256"`
	Description string   `json:"description" binding:"required,max=2048"`
	ImageURL    string   `json:"image_url" binding:"omitempty,url"`
	Industry    string   `json:"industry" binding:"max=64"`
	Tags        []string `json:"tags" binding:"max=16"`
}

// ToEntity 转换为领域灵感 Logo
func (r *IndexInspirationRequest) ToEntity() *entity.InspirationLogo {
	return &entity.InspirationLogo{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Industry:    r.Industry,
		Tags:        r.Tags,
	}
}

// SearchInspirationsRequest 灵感相似检索请求
type SearchInspirationsRequest struct {
	Query string `json:"query" binding:"required,max=512"`
	TopK  int    `json:"top_k" binding:"min=0,max=20"`
}

// InspirationResponse 灵感 Logo 响应
type InspirationResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewInspirationResponse 从领域灵感构建响应
func NewInspirationResponse(logo *entity.InspirationLogo) *InspirationResponse {
	return &InspirationResponse{
		ID:          logo.ID,
		Title:       logo.Title,
		Description: logo.Description,
		ImageURL:    logo.ImageURL,
		Industry:    logo.Industry,
		Tags:        logo.Tags,
		CreatedAt:   logo.CreatedAt,
	}
}

// InspirationMatchResponse 相似检索命中响应
type InspirationMatchResponse struct {
	Logo  *InspirationResponse `json:"logo"`
	Score float32              `json:"score"`
}

// NewInspirationMatchResponses 批量构建命中响应
func NewInspirationMatchResponses(matches []*entity.InspirationMatch) []*InspirationMatchResponse {
	out := make([]*InspirationMatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, &InspirationMatchResponse{
			Logo:  NewInspirationResponse(m.Logo),
			Score: m.Score,
		})
	}
	return out
}
