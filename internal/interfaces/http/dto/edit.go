package dto

import (
	"z-logo-ai-api/internal/domain/entity"
)

// ParseCommandRequest 编辑指令解析请求
type ParseCommandRequest struct {
	Text string `json:"text" binding:"required,max=512"`
	// LogoID 可选，提供时解析会结合该 Logo 的元数据
	LogoID string `json:"logo_id" binding:"omitempty,uuid"`
}

// EditCommandResponse 解析后的编辑指令响应
type EditCommandResponse struct {
	Kind            string                   `json:"kind"`
	Confidence      float64                  `json:"confidence"`
	InputText       string                   `json:"input_text"`
	Structured      entity.StructuredCommand `json:"structured"`
	Prompt          *entity.GeneratedPrompt  `json:"prompt,omitempty"`
	Strength        float64                  `json:"strength"`
	ParseDurationMs int64                    `json:"parse_duration_ms"`
	Alternatives    []string                 `json:"alternatives,omitempty"`
}

// NewEditCommandResponse 从领域指令构建响应
func NewEditCommandResponse(cmd *entity.EditCommand) *EditCommandResponse {
	return &EditCommandResponse{
		Kind:            string(cmd.Kind),
		Confidence:      cmd.Confidence,
		InputText:       cmd.InputText,
		Structured:      cmd.Structured,
		Prompt:          cmd.Prompt,
		Strength:        cmd.Strength,
		ParseDurationMs: cmd.ParseDurationMs,
		Alternatives:    cmd.Alternatives,
	}
}

// EditLogoRequest 直接编辑 Logo 请求
type EditLogoRequest struct {
	Text string `json:"text" binding:"required,max=512"`
}

// SuggestionsQuery 编辑建议查询参数
type SuggestionsQuery struct {
	LogoID string `form:"logo_id" binding:"omitempty,uuid"`
}

// SuggestionsResponse 编辑建议响应
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}
