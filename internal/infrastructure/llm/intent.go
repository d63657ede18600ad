package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	"z-logo-ai-api/internal/application/command"
	"z-logo-ai-api/internal/config"
	"z-logo-ai-api/internal/domain/entity"
	"z-logo-ai-api/pkg/logger"
	"z-logo-ai-api/pkg/metrics"
)

const intentSystemPrompt = `You are an assistant that interprets logo editing instructions.
Given a user instruction, respond with a single JSON object:
{"action": "<verb>", "target": "<element of the logo>", "value": "<desired change>", "confidence": <0.0-1.0>, "suggestions": ["<optional alternative phrasings>"]}
Respond with the JSON object only, no surrounding text.`

// IntentAnalyzer 基于 Eino ChatModel 的意图抽取器，
// 实现 command.IntentAnalyzer 端口。
type IntentAnalyzer struct {
	factory  *EinoFactory
	provider string
	model    string
}

// NewIntentAnalyzer 创建意图抽取器
func NewIntentAnalyzer(factory *EinoFactory, cfg *config.Config) *IntentAnalyzer {
	provider := cfg.LLM.DefaultProvider
	modelName := ""
	if p, ok := cfg.LLM.Providers[provider]; ok {
		modelName = p.Model
	}
	return &IntentAnalyzer{
		factory:  factory,
		provider: provider,
		model:    modelName,
	}
}

// intentPayload 模型回复的 JSON 形态
type intentPayload struct {
	Action      string   `json:"action"`
	Target      string   `json:"target"`
	Value       string   `json:"value"`
	Confidence  float64  `json:"confidence"`
	Suggestions []string `json:"suggestions"`
}

// AnalyzeIntent 调用语言模型抽取结构化编辑意图。
// 调用方（解析器）负责在出错时降级，这里只如实返回错误。
func (a *IntentAnalyzer) AnalyzeIntent(ctx context.Context, text string, meta entity.LogoMetadata) (*command.IntentResult, error) {
	chatModel, err := a.factory.Default(ctx)
	if err != nil {
		return nil, err
	}

	userPrompt := fmt.Sprintf("Instruction: %s", text)
	if meta.CompanyName != "" {
		userPrompt = fmt.Sprintf("%s\nLogo context: brand %q, industry %q.", userPrompt, meta.CompanyName, meta.Industry)
	}

	start := time.Now()
	outMsg, err := chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(intentSystemPrompt),
		schema.UserMessage(userPrompt),
	})
	metrics.LLMCallDuration.WithLabelValues(a.provider, a.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(a.provider, a.model, "error").Inc()
		return nil, fmt.Errorf("intent analysis call failed: %w", err)
	}
	metrics.LLMCallTotal.WithLabelValues(a.provider, a.model, "success").Inc()

	var payload intentPayload
	raw := ExtractJSONObject(outMsg.Content)
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		logger.Warn(ctx, "intent reply is not valid json", "error", err.Error())
		return nil, fmt.Errorf("failed to decode intent reply: %w", err)
	}

	return &command.IntentResult{
		Action:      payload.Action,
		Target:      payload.Target,
		Value:       payload.Value,
		Confidence:  payload.Confidence,
		Suggestions: payload.Suggestions,
	}, nil
}
