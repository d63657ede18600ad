// Package command 提供自然语言编辑指令的分类与解析
package command

import (
	"context"
	"strings"
	"time"

	"z-logo-ai-api/internal/application/prompt"
	"z-logo-ai-api/internal/domain/entity"
	"z-logo-ai-api/pkg/logger"
	"z-logo-ai-api/pkg/metrics"
)

// 置信度约定
const (
	// fallbackConfidence LLM 协作者不可用或失败时的固定置信度
	fallbackConfidence = 0.5
	// minConfidence 解析整体失败时的兜底置信度
	minConfidence = 0.1
)

// IntentResult LLM 协作者抽取的结构化意图
type IntentResult struct {
	Action      string
	Target      string
	Value       string
	Confidence  float64
	Suggestions []string
}

// IntentAnalyzer 外部语言模型协作者端口。
// 实现缺席或失败必须降级为兜底结构化指令，绝不向上传播为致命错误。
type IntentAnalyzer interface {
	AnalyzeIntent(ctx context.Context, text string, meta entity.LogoMetadata) (*IntentResult, error)
}

// Parser 编辑指令解析器
type Parser struct {
	compiler *prompt.Compiler
	analyzer IntentAnalyzer // 可为 nil
}

// NewParser 创建解析器。analyzer 传 nil 时跳过 LLM 精析阶段。
func NewParser(compiler *prompt.Compiler, analyzer IntentAnalyzer) *Parser {
	return &Parser{
		compiler: compiler,
		analyzer: analyzer,
	}
}

// Parse 解析自由文本编辑指令。解析永不失败：
// 任何阶段出错都会降级为低置信度的通用指令而不是返回错误。
func (p *Parser) Parse(ctx context.Context, text string, current *entity.GeneratedLogo) *entity.EditCommand {
	start := time.Now()

	kind := Classify(text)

	var meta entity.LogoMetadata
	if current != nil {
		meta = current.Metadata
	}

	structured, confidence, alternatives, source := p.extractIntent(ctx, text, meta)

	compiled, err := p.compiler.CompileEdit(text, meta)
	if err != nil {
		// 编译失败（如空指令）：退回最低置信度的通用指令
		logger.Warn(ctx, "edit prompt compilation failed, using generic command", "error", err.Error())
		metrics.CommandParseTotal.WithLabelValues(string(kind), "generic").Inc()
		return genericCommand(text, kind, start)
	}

	strength := prompt.ClampStrength(DeriveStrength(text, kind))
	compiled.Quality.Strength = strength

	metrics.CommandParseTotal.WithLabelValues(string(kind), source).Inc()

	return &entity.EditCommand{
		Kind:            kind,
		Confidence:      confidence,
		InputText:       text,
		Structured:      structured,
		Prompt:          compiled,
		Strength:        strength,
		ParsedAt:        start,
		ParseDurationMs: time.Since(start).Milliseconds(),
		Alternatives:    alternatives,
	}
}

// extractIntent 调用 LLM 协作者抽取结构化意图，失败时降级
func (p *Parser) extractIntent(ctx context.Context, text string, meta entity.LogoMetadata) (entity.StructuredCommand, float64, []string, string) {
	if p.analyzer == nil {
		return fallbackStructured(text), fallbackConfidence, nil, "fallback"
	}

	result, err := p.analyzer.AnalyzeIntent(ctx, text, meta)
	if err != nil || result == nil {
		if err != nil {
			logger.Warn(ctx, "intent analysis failed, falling back", "error", err.Error())
		}
		return fallbackStructured(text), fallbackConfidence, nil, "fallback"
	}

	structured := entity.StructuredCommand{
		Action: strings.TrimSpace(result.Action),
		Target: strings.TrimSpace(result.Target),
		Value:  strings.TrimSpace(result.Value),
	}
	if structured.Action == "" {
		structured.Action = "modify"
	}
	if structured.Target == "" {
		structured.Target = "overall"
	}
	if structured.Value == "" {
		structured.Value = text
	}

	confidence := result.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = fallbackConfidence
	}

	return structured, confidence, result.Suggestions, "llm"
}

// fallbackStructured 固定形态的兜底结构化指令
func fallbackStructured(text string) entity.StructuredCommand {
	return entity.StructuredCommand{
		Action: "modify",
		Target: "overall",
		Value:  text,
	}
}

// genericCommand 解析整体失败时的最低置信度通用指令
func genericCommand(text string, kind entity.CommandKind, start time.Time) *entity.EditCommand {
	strength := prompt.ClampStrength(DeriveStrength(text, kind))
	return &entity.EditCommand{
		Kind:            kind,
		Confidence:      minConfidence,
		InputText:       text,
		Structured:      fallbackStructured(text),
		Strength:        strength,
		ParsedAt:        start,
		ParseDurationMs: time.Since(start).Milliseconds(),
	}
}
