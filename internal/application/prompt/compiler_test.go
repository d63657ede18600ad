package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-logo-ai-api/internal/domain/entity"
)

func TestCompileRequiresCompanyName(t *testing.T) {
	c := NewCompiler()

	_, err := c.Compile(nil)
	assert.Error(t, err)

	_, err = c.Compile(&entity.GenerationRequest{CompanyName: "   "})
	assert.Error(t, err)
}

func TestCompileIsDeterministic(t *testing.T) {
	c := NewCompiler()
	req := &entity.GenerationRequest{
		CompanyName:      "Acme Robotics",
		Industry:         "technology",
		BusinessType:     "startup",
		StylePreferences: []string{"modern", "minimalist"},
		ColorPreferences: []string{"blue"},
	}

	first, err := c.Compile(req)
	require.NoError(t, err)
	second, err := c.Compile(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompileFallbackPhrases(t *testing.T) {
	c := NewCompiler()

	// 所有可选属性缺席或未命中词表时使用固定兜底措辞
	p, err := c.Compile(&entity.GenerationRequest{
		CompanyName:      "Nameless Co",
		Industry:         "underwater basket weaving",
		StylePreferences: []string{"unheard-of-style"},
		ColorPreferences: []string{"ultraviolet-ish"},
	})
	require.NoError(t, err)

	assert.Contains(t, p.MainPrompt, "Style: modern and professional.")
	assert.Contains(t, p.MainPrompt, "Industry context: professional and modern.")
	assert.Contains(t, p.MainPrompt, "Color scheme: professional color palette.")
	assert.Contains(t, p.MainPrompt, "Target audience: general consumers.")
	assert.Empty(t, p.StyleModifiers)
}

func TestCompileTechnologyIndustryUsesFallback(t *testing.T) {
	c := NewCompiler()

	// technology 不在行业词表中，走兜底描述且恰好出现一次
	p, err := c.Compile(&entity.GenerationRequest{
		CompanyName:      "Acme",
		Industry:         "technology",
		StylePreferences: []string{},
		ColorPreferences: []string{},
	})
	require.NoError(t, err)

	assert.Contains(t, p.MainPrompt, "Industry context: professional and modern.")
	assert.Equal(t, 1, strings.Count(p.MainPrompt, "professional and modern"))
}

func TestCompileQualityDefaultsWithinProviderRange(t *testing.T) {
	c := NewCompiler()
	p, err := c.Compile(&entity.GenerationRequest{CompanyName: "Acme"})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, p.Quality.Steps, MinSteps)
	assert.LessOrEqual(t, p.Quality.Steps, MaxSteps)
	assert.GreaterOrEqual(t, p.Quality.Guidance, MinGuidance)
	assert.LessOrEqual(t, p.Quality.Guidance, MaxGuidance)
	assert.NotEmpty(t, p.NegativePrompt)
}

func TestCompileAspectRatio(t *testing.T) {
	c := NewCompiler()

	p, err := c.Compile(&entity.GenerationRequest{CompanyName: "Acme", BusinessType: "social_media"})
	require.NoError(t, err)
	assert.Equal(t, "16:9", p.AspectRatio)

	p, err = c.Compile(&entity.GenerationRequest{CompanyName: "Acme", BusinessType: "startup"})
	require.NoError(t, err)
	assert.Equal(t, "1:1", p.AspectRatio)

	p, err = c.Compile(&entity.GenerationRequest{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "1:1", p.AspectRatio)
}

func TestCompileClampsPromptLength(t *testing.T) {
	c := NewCompiler()
	p, err := c.Compile(&entity.GenerationRequest{
		CompanyName:  "Acme",
		CustomPrompt: strings.Repeat("very detailed requirement ", 200),
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(p.MainPrompt), MaxPromptLength)
	assert.True(t, strings.HasSuffix(p.MainPrompt, "..."))
}

func TestCompileInspirationReference(t *testing.T) {
	c := NewCompiler()

	p, err := c.Compile(&entity.GenerationRequest{
		CompanyName:         "Acme",
		InspirationImageURL: "https://example.com/ref.png",
	})
	require.NoError(t, err)
	assert.Contains(t, p.MainPrompt, "reference image")
	assert.Contains(t, p.MainPrompt, `"Acme"`)

	p, err = c.Compile(&entity.GenerationRequest{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.NotContains(t, p.MainPrompt, "reference image")
}

func TestCompileEdit(t *testing.T) {
	c := NewCompiler()

	_, err := c.CompileEdit("   ", entity.LogoMetadata{})
	assert.Error(t, err)

	p, err := c.CompileEdit("make it bluer", entity.LogoMetadata{
		CompanyName: "Acme",
		Industry:    "technology",
		StyleTags:   []string{"minimalist"},
	})
	require.NoError(t, err)
	assert.Contains(t, p.MainPrompt, "make it bluer")
	assert.Contains(t, p.MainPrompt, `"Acme"`)
	assert.Equal(t, "1:1", p.AspectRatio)
	assert.GreaterOrEqual(t, p.Quality.Strength, MinStrength)
	assert.LessOrEqual(t, p.Quality.Strength, MaxStrength)
}

func TestCompileVariationsFanOut(t *testing.T) {
	c := NewCompiler()
	req := &entity.GenerationRequest{CompanyName: "Acme", Industry: "food"}

	prompts, err := c.CompileVariations(req, 5)
	require.NoError(t, err)
	require.Len(t, prompts, 5)

	seen := make(map[string]bool)
	for i, p := range prompts {
		assert.False(t, seen[p.MainPrompt], "variation %d duplicates an earlier prompt", i)
		seen[p.MainPrompt] = true

		assert.GreaterOrEqual(t, p.Quality.Guidance, MinGuidance)
		assert.LessOrEqual(t, p.Quality.Guidance, MaxGuidance)
		assert.GreaterOrEqual(t, p.Quality.Strength, MinStrength)
		assert.LessOrEqual(t, p.Quality.Strength, MaxStrength)
	}

	// count <= 0 退化为单张
	prompts, err = c.CompileVariations(req, 0)
	require.NoError(t, err)
	assert.Len(t, prompts, 1)
}

func TestTransformTemplatesReturnsCopy(t *testing.T) {
	first := TransformTemplates()
	require.NotEmpty(t, first)
	first[0].Name = "mutated"

	second := TransformTemplates()
	assert.NotEqual(t, "mutated", second[0].Name)
}

func TestClampStrength(t *testing.T) {
	assert.Equal(t, MinStrength, ClampStrength(0.0))
	assert.Equal(t, MaxStrength, ClampStrength(1.5))
	assert.Equal(t, 0.6, ClampStrength(0.6))
}
