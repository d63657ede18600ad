package dto

import (
	"z-logo-ai-api/internal/domain/entity"
)

// LogoResponse 单个 Logo 响应
type LogoResponse struct {
	ID                string                  `json:"id"`
	ImageURL          string                  `json:"image_url,omitempty"`
	ImageData         string                  `json:"image_data,omitempty"`
	Prompt            *entity.GeneratedPrompt `json:"prompt,omitempty"`
	ProviderRequestID string                  `json:"provider_request_id,omitempty"`
	Metadata          entity.LogoMetadata     `json:"metadata"`
	Status            string                  `json:"status"`
	Error             string                  `json:"error,omitempty"`
}

// NewLogoResponse 从领域 Logo 构建响应
func NewLogoResponse(logo *entity.GeneratedLogo) *LogoResponse {
	if logo == nil {
		return nil
	}
	return &LogoResponse{
		ID:                logo.ID,
		ImageURL:          logo.ImageURL,
		ImageData:         logo.ImageData,
		Prompt:            logo.Prompt,
		ProviderRequestID: logo.ProviderRequestID,
		Metadata:          logo.Metadata,
		Status:            string(logo.Status),
		Error:             logo.Error,
	}
}

// NewLogoResponses 批量构建 Logo 响应
func NewLogoResponses(logos []*entity.GeneratedLogo) []*LogoResponse {
	out := make([]*LogoResponse, 0, len(logos))
	for _, logo := range logos {
		out = append(out, NewLogoResponse(logo))
	}
	return out
}

// ListLogosQuery Logo 列表查询参数
type ListLogosQuery struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}
