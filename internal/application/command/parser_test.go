package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-logo-ai-api/internal/application/prompt"
	"z-logo-ai-api/internal/domain/entity"
)

// stubAnalyzer 可编程的 LLM 协作者替身
type stubAnalyzer struct {
	result *IntentResult
	err    error
	calls  int
}

func (s *stubAnalyzer) AnalyzeIntent(_ context.Context, _ string, _ entity.LogoMetadata) (*IntentResult, error) {
	s.calls++
	return s.result, s.err
}

func TestParseWithoutAnalyzer(t *testing.T) {
	p := NewParser(prompt.NewCompiler(), nil)

	cmd := p.Parse(context.Background(), "make it more blue", nil)
	require.NotNil(t, cmd)

	assert.Equal(t, entity.CommandColorChange, cmd.Kind)
	assert.InDelta(t, 0.5, cmd.Confidence, 1e-9)
	assert.Equal(t, "modify", cmd.Structured.Action)
	assert.Equal(t, "overall", cmd.Structured.Target)
	assert.Equal(t, "make it more blue", cmd.Structured.Value)
	require.NotNil(t, cmd.Prompt)
	assert.InDelta(t, cmd.Strength, cmd.Prompt.Quality.Strength, 1e-9)
}

func TestParseNeverFailsOnAnalyzerError(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("llm unavailable")}
	p := NewParser(prompt.NewCompiler(), analyzer)

	cmd := p.Parse(context.Background(), "make it more modern", nil)
	require.NotNil(t, cmd)

	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, entity.CommandStyleChange, cmd.Kind)
	assert.InDelta(t, 0.5, cmd.Confidence, 1e-9)
	assert.Equal(t, "modify", cmd.Structured.Action)
	require.NotNil(t, cmd.Prompt)
}

func TestParseUsesAnalyzerResult(t *testing.T) {
	analyzer := &stubAnalyzer{result: &IntentResult{
		Action:      "recolor",
		Target:      "background",
		Value:       "deep navy",
		Confidence:  0.92,
		Suggestions: []string{"try teal instead"},
	}}
	p := NewParser(prompt.NewCompiler(), analyzer)

	cmd := p.Parse(context.Background(), "make the background deep navy", &entity.GeneratedLogo{
		Metadata: entity.LogoMetadata{CompanyName: "Acme", Industry: "technology"},
	})
	require.NotNil(t, cmd)

	assert.Equal(t, "recolor", cmd.Structured.Action)
	assert.Equal(t, "background", cmd.Structured.Target)
	assert.Equal(t, "deep navy", cmd.Structured.Value)
	assert.InDelta(t, 0.92, cmd.Confidence, 1e-9)
	assert.Equal(t, []string{"try teal instead"}, cmd.Alternatives)
}

func TestParseNormalizesAnalyzerOutput(t *testing.T) {
	// 空字段回填固定形态，越界置信度回退到兜底值
	analyzer := &stubAnalyzer{result: &IntentResult{Confidence: 3.5}}
	p := NewParser(prompt.NewCompiler(), analyzer)

	cmd := p.Parse(context.Background(), "tweak it", nil)
	require.NotNil(t, cmd)

	assert.Equal(t, "modify", cmd.Structured.Action)
	assert.Equal(t, "overall", cmd.Structured.Target)
	assert.Equal(t, "tweak it", cmd.Structured.Value)
	assert.InDelta(t, 0.5, cmd.Confidence, 1e-9)
}

func TestParseEmptyTextDegradesToGenericCommand(t *testing.T) {
	p := NewParser(prompt.NewCompiler(), nil)

	cmd := p.Parse(context.Background(), "   ", nil)
	require.NotNil(t, cmd)

	// 空指令编译失败：最低置信度，无可派发提示词
	assert.Nil(t, cmd.Prompt)
	assert.InDelta(t, 0.1, cmd.Confidence, 1e-9)
	assert.Equal(t, entity.CommandStyleChange, cmd.Kind)
}

func TestParseStrengthAlwaysClamped(t *testing.T) {
	p := NewParser(prompt.NewCompiler(), nil)

	cmd := p.Parse(context.Background(), "dramatically reinvent the whole style", nil)
	require.NotNil(t, cmd)
	assert.GreaterOrEqual(t, cmd.Strength, prompt.MinStrength)
	assert.LessOrEqual(t, cmd.Strength, prompt.MaxStrength)

	cmd = p.Parse(context.Background(), "subtly adjust the style", nil)
	require.NotNil(t, cmd)
	assert.InDelta(t, 0.3, cmd.Strength, 1e-9)
}
