package dto

import (
	"time"

	"z-logo-ai-api/internal/domain/entity"
)

// GenerateLogosRequest 生成 Logo 请求
type GenerateLogosRequest struct {
	CompanyName         string   `json:"company_name" binding:"required,max=128"`
	Industry            string   `json:"industry" binding:"max=64"`
	BusinessType        string   `json:"business_type" binding:"max=64"`
	TargetAudience      string   `json:"target_audience" binding:"max=256"`
	BrandDescription    string   `json:"brand_description" binding:"max=1024"`
	StylePreferences    []string `json:"style_preferences" binding:"max=16"`
	ColorPreferences    []string `json:"color_preferences" binding:"max=16"`
	InspirationImageURL string   `json:"inspiration_image_url" binding:"omitempty,url"`
	VariationCount      int      `json:"variation_count" binding:"min=0,max=8"`
	CustomPrompt        string   `json:"custom_prompt" binding:"max=1024"`
}

// ToEntity 转换为领域生成请求
func (r *GenerateLogosRequest) ToEntity() *entity.GenerationRequest {
	return &entity.GenerationRequest{
		CompanyName:         r.CompanyName,
		Industry:            r.Industry,
		BusinessType:        r.BusinessType,
		TargetAudience:      r.TargetAudience,
		BrandDescription:    r.BrandDescription,
		StylePreferences:    r.StylePreferences,
		ColorPreferences:    r.ColorPreferences,
		InspirationImageURL: r.InspirationImageURL,
		VariationCount:      r.VariationCount,
		CustomPrompt:        r.CustomPrompt,
	}
}

// VariationsRequest 变体生成请求
type VariationsRequest struct {
	Count int `json:"count" binding:"min=0,max=8"`
}

// GenerationResultResponse 生成结果响应
type GenerationResultResponse struct {
	Success           bool            `json:"success"`
	WorkflowID        string          `json:"workflow_id"`
	Logos             []*LogoResponse `json:"logos"`
	TotalGenerated    int             `json:"total_generated"`
	FailedCount       int             `json:"failed_count"`
	TotalProcessingMs int64           `json:"total_processing_ms"`
	Error             string          `json:"error,omitempty"`
}

// NewGenerationResultResponse 从领域结果构建响应
func NewGenerationResultResponse(result *entity.GenerationResult) *GenerationResultResponse {
	return &GenerationResultResponse{
		Success:           result.Success,
		WorkflowID:        result.WorkflowID,
		Logos:             NewLogoResponses(result.Logos),
		TotalGenerated:    result.TotalGenerated,
		FailedCount:       result.FailedCount,
		TotalProcessingMs: result.TotalProcessingMs,
		Error:             result.Error,
	}
}

// ProgressResponse 工作流进度响应
type ProgressResponse struct {
	WorkflowID     string          `json:"workflow_id"`
	Status         string          `json:"status"`
	CurrentStep    string          `json:"current_step"`
	CompletedSteps int             `json:"completed_steps"`
	TotalSteps     int             `json:"total_steps"`
	Percentage     int             `json:"percentage"`
	Message        string          `json:"message,omitempty"`
	Logos          []*LogoResponse `json:"logos,omitempty"`
	Error          string          `json:"error,omitempty"`
	StartedAt      time.Time       `json:"started_at"`
}

// NewProgressResponse 从进度快照构建响应
func NewProgressResponse(p *entity.GenerationProgress) *ProgressResponse {
	return &ProgressResponse{
		WorkflowID:     p.WorkflowID,
		Status:         string(p.Status),
		CurrentStep:    p.CurrentStep,
		CompletedSteps: p.CompletedSteps,
		TotalSteps:     p.TotalSteps,
		Percentage:     p.Percentage,
		Message:        p.Message,
		Logos:          NewLogoResponses(p.Logos),
		Error:          p.Error,
		StartedAt:      p.StartedAt,
	}
}
