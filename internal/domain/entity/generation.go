// Package entity 定义领域实体
package entity

import (
	"time"
)

// GenerationStatus 生成工作流状态
type GenerationStatus string

const (
	StatusGeneratingPrompts GenerationStatus = "generating_prompts"
	StatusCreatingLogos     GenerationStatus = "creating_logos"
	StatusProcessingResults GenerationStatus = "processing_results"
	StatusCompleted         GenerationStatus = "completed"
	StatusError             GenerationStatus = "error"
)

// GenerationKind 生成类型
type GenerationKind string

const (
	KindNew       GenerationKind = "new"
	KindVariation GenerationKind = "variation"
	KindEdit      GenerationKind = "edit"
)

// LogoStatus 单个 Logo 的终态
type LogoStatus string

const (
	LogoStatusGenerating LogoStatus = "generating"
	LogoStatusCompleted  LogoStatus = "completed"
	LogoStatusFailed     LogoStatus = "failed"
)

// GenerationRequest 一次生成工作流的不可变输入
type GenerationRequest struct {
	CompanyName      string   `json:"company_name"`
	Industry         string   `json:"industry"`
	BusinessType     string   `json:"business_type"`
	TargetAudience   string   `json:"target_audience,omitempty"`
	BrandDescription string   `json:"brand_description,omitempty"`
	StylePreferences []string `json:"style_preferences,omitempty"`
	ColorPreferences []string `json:"color_preferences,omitempty"`
	// InspirationImageURL 参考 Logo 的图像地址（可选）
	InspirationImageURL string `json:"inspiration_image_url,omitempty"`
	// VariationCount 期望生成的张数，0 表示单张
	VariationCount int `json:"variation_count,omitempty"`
	// CustomPrompt 用户自定义的附加提示词
	CustomPrompt string `json:"custom_prompt,omitempty"`
}

// QualitySettings 提供商质量参数，派发前总是被钳制到提供商接受范围
type QualitySettings struct {
	Steps    int     `json:"steps"`
	Guidance float64 `json:"guidance"`
	// Strength 编辑强度，仅编辑类提示词使用，0 表示未设置
	Strength float64 `json:"strength,omitempty"`
}

// GeneratedPrompt 编译后的提示词
type GeneratedPrompt struct {
	MainPrompt     string          `json:"main_prompt"`
	NegativePrompt string          `json:"negative_prompt,omitempty"`
	StyleModifiers []string        `json:"style_modifiers,omitempty"`
	AspectRatio    string          `json:"aspect_ratio"`
	Quality        QualitySettings `json:"quality"`
}

// LogoMetadata Logo 生成元数据
type LogoMetadata struct {
	CreatedAt       time.Time      `json:"created_at"`
	Kind            GenerationKind `json:"kind"`
	CompanyName     string         `json:"company_name,omitempty"`
	Industry        string         `json:"industry,omitempty"`
	BusinessType    string         `json:"business_type,omitempty"`
	StyleTags       []string       `json:"style_tags,omitempty"`
	ColorTags       []string       `json:"color_tags,omitempty"`
	UsedInspiration bool           `json:"used_inspiration,omitempty"`
	ProcessingMs    int64          `json:"processing_ms"`
}

// GeneratedLogo 一次提供商调用产出的 Logo，终态后不可变
type GeneratedLogo struct {
	ID string `json:"id"`
	// ImageURL 提供商返回的图像地址
	ImageURL string `json:"image_url,omitempty"`
	// ImageData base64 编码的内联图像数据
	ImageData         string           `json:"image_data,omitempty"`
	Prompt            *GeneratedPrompt `json:"prompt,omitempty"`
	ProviderRequestID string           `json:"provider_request_id,omitempty"`
	Metadata          LogoMetadata     `json:"metadata"`
	Status            LogoStatus       `json:"status"`
	Error             string           `json:"error,omitempty"`
}

// HasInlineData 是否已持有内联图像数据
func (l *GeneratedLogo) HasInlineData() bool {
	return l != nil && l.ImageData != ""
}

// GenerationProgress 工作流进度，仅由所属协调器修改
type GenerationProgress struct {
	WorkflowID     string           `json:"workflow_id"`
	Status         GenerationStatus `json:"status"`
	CurrentStep    string           `json:"current_step"`
	CompletedSteps int              `json:"completed_steps"`
	TotalSteps     int              `json:"total_steps"`
	Percentage     int              `json:"percentage"`
	Message        string           `json:"message,omitempty"`
	Logos          []*GeneratedLogo `json:"logos,omitempty"`
	Error          string           `json:"error,omitempty"`
	StartedAt      time.Time        `json:"started_at"`
}

// NewGenerationProgress 创建工作流进度
func NewGenerationProgress(workflowID string, totalSteps int) *GenerationProgress {
	return &GenerationProgress{
		WorkflowID: workflowID,
		Status:     StatusGeneratingPrompts,
		TotalSteps: totalSteps,
		StartedAt:  time.Now(),
	}
}

// Advance 推进到下一个状态
func (p *GenerationProgress) Advance(status GenerationStatus, step string, message string) {
	p.Status = status
	p.CurrentStep = step
	p.Message = message
}

// UpdatePercentage 更新百分比，保证单调不减且不超过 100
func (p *GenerationProgress) UpdatePercentage(percentage int) {
	if percentage < p.Percentage {
		return
	}
	if percentage > 100 {
		percentage = 100
	}
	p.Percentage = percentage
}

// AddLogo 记录一个已产出的 Logo 并推进步数
func (p *GenerationProgress) AddLogo(logo *GeneratedLogo) {
	p.Logos = append(p.Logos, logo)
	p.CompletedSteps++
}

// Complete 工作流完成
func (p *GenerationProgress) Complete(message string) {
	p.Status = StatusCompleted
	p.CurrentStep = "completed"
	p.Message = message
	p.UpdatePercentage(100)
}

// Fail 工作流因结构性错误终止，百分比冻结在最后上报值
func (p *GenerationProgress) Fail(errMsg string) {
	p.Status = StatusError
	p.CurrentStep = "error"
	p.Error = errMsg
}

// IsTerminal 是否已到达终态
func (p *GenerationProgress) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusError
}

// Clone 返回进度快照，避免读取方观察到部分修改
func (p *GenerationProgress) Clone() *GenerationProgress {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Logos = make([]*GeneratedLogo, len(p.Logos))
	copy(cp.Logos, p.Logos)
	return &cp
}

// GenerationResult 一次工作流的聚合结果
type GenerationResult struct {
	Success bool             `json:"success"`
	Logos   []*GeneratedLogo `json:"logos"`
	// TotalGenerated 成功生成的张数
	TotalGenerated int `json:"total_generated"`
	// FailedCount 失败的张数
	FailedCount       int    `json:"failed_count"`
	TotalProcessingMs int64  `json:"total_processing_ms"`
	Error             string `json:"error,omitempty"`
	WorkflowID        string `json:"workflow_id"`
}
