// Package prompt 提供业务属性到生成提示词的编译
package prompt

import (
	"fmt"
	"strings"

	"z-logo-ai-api/internal/domain/entity"
)

// 提供商接受范围，编译产物派发前总是被钳制到这些区间
const (
	MaxPromptLength = 2000

	MinSteps = 20
	MaxSteps = 50

	MinGuidance = 1.5
	MaxGuidance = 5.0

	MinStrength = 0.1
	MaxStrength = 1.0
)

// 默认质量参数
const (
	defaultSteps        = 28
	defaultGuidance     = 3.0
	defaultEditStrength = 0.75
)

// Compiler 提示词编译器，无状态纯函数集合
type Compiler struct{}

// NewCompiler 创建提示词编译器
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile 将生成请求编译为提供商提示词。同样的输入总是产出同样的结果。
func (c *Compiler) Compile(req *entity.GenerationRequest) (*entity.GeneratedPrompt, error) {
	if req == nil {
		return nil, fmt.Errorf("generation request is nil")
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, fmt.Errorf("company name is required")
	}

	styleDesc, modifiers := styleDescription(req.StylePreferences)
	industryDesc := industryDescription(req.Industry)
	colorDesc := colorDescription(req.ColorPreferences)
	audience := audiencePhrase(req.TargetAudience)
	requirements := requirementsClause(req)

	var b strings.Builder
	fmt.Fprintf(&b, "Design a distinctive brand logo for %q.", strings.TrimSpace(req.CompanyName))
	fmt.Fprintf(&b, " Style: %s.", styleDesc)
	fmt.Fprintf(&b, " Industry context: %s.", industryDesc)
	fmt.Fprintf(&b, " Color scheme: %s.", colorDesc)
	fmt.Fprintf(&b, " Target audience: %s.", audience)
	fmt.Fprintf(&b, " Requirements: %s.", requirements)

	if strings.TrimSpace(req.InspirationImageURL) != "" {
		fmt.Fprintf(&b,
			" Adapt the structure and composition of the provided reference image, replacing any existing name text with %q.",
			strings.TrimSpace(req.CompanyName))
	}

	p := &entity.GeneratedPrompt{
		MainPrompt:     clampPrompt(b.String()),
		NegativePrompt: negativePrompt,
		StyleModifiers: modifiers,
		AspectRatio:    aspectRatioFor(req.BusinessType),
		Quality: entity.QualitySettings{
			Steps:    clampSteps(defaultSteps),
			Guidance: clampGuidance(defaultGuidance),
		},
	}
	return p, nil
}

// CompileEdit 将自由文本编辑指令编译为提供商编辑提示词
func (c *Compiler) CompileEdit(instructions string, meta entity.LogoMetadata) (*entity.GeneratedPrompt, error) {
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return nil, fmt.Errorf("edit instructions are empty")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Apply the following adjustment to the existing logo: %s.", instructions)
	if meta.CompanyName != "" {
		fmt.Fprintf(&b, " Preserve the brand identity of %q", meta.CompanyName)
		if meta.Industry != "" {
			industryDesc := industryDescription(meta.Industry)
			fmt.Fprintf(&b, " (%s)", industryDesc)
		}
		b.WriteString(".")
	}
	if len(meta.StyleTags) > 0 {
		styleDesc, _ := styleDescription(meta.StyleTags)
		fmt.Fprintf(&b, " Keep the established style: %s.", styleDesc)
	}
	b.WriteString(" Keep the composition coherent and avoid introducing unrelated elements.")

	return &entity.GeneratedPrompt{
		MainPrompt:     clampPrompt(b.String()),
		NegativePrompt: negativePrompt,
		AspectRatio:    "1:1",
		Quality: entity.QualitySettings{
			Steps:    clampSteps(defaultSteps),
			Guidance: clampGuidance(defaultGuidance),
			Strength: ClampStrength(defaultEditStrength),
		},
	}, nil
}

// CompileVariations 确定性扇出：按索引追加轮换强调修饰词并微调质量参数
func (c *Compiler) CompileVariations(req *entity.GenerationRequest, count int) ([]*entity.GeneratedPrompt, error) {
	if count <= 0 {
		count = 1
	}
	base, err := c.Compile(req)
	if err != nil {
		return nil, err
	}

	prompts := make([]*entity.GeneratedPrompt, 0, count)
	for i := 0; i < count; i++ {
		modifier := variationModifiers[i%len(variationModifiers)]
		p := &entity.GeneratedPrompt{
			MainPrompt:     clampPrompt(fmt.Sprintf("%s Emphasize %s.", base.MainPrompt, modifier)),
			NegativePrompt: base.NegativePrompt,
			StyleModifiers: append(append([]string{}, base.StyleModifiers...), modifier),
			AspectRatio:    base.AspectRatio,
			Quality: entity.QualitySettings{
				Steps:    base.Quality.Steps,
				Guidance: clampGuidance(base.Quality.Guidance + 0.2*float64(i)),
				Strength: ClampStrength(MinStrength + 0.05*float64(i)),
			},
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

// styleDescription 连接风格描述，返回描述与命中的修饰词
func styleDescription(tags []string) (string, []string) {
	var parts []string
	var hits []string
	for _, tag := range tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if desc, ok := styleDescriptions[key]; ok {
			parts = append(parts, desc)
			hits = append(hits, key)
		}
	}
	if len(parts) == 0 {
		return defaultStyleDescription, nil
	}
	return strings.Join(parts, ", "), hits
}

func industryDescription(industry string) string {
	if desc, ok := industryDescriptions[strings.ToLower(strings.TrimSpace(industry))]; ok {
		return desc
	}
	return defaultIndustryDescription
}

// colorDescription 单色查表；两色及以上生成调和措辞
func colorDescription(tags []string) string {
	var hits []string
	for _, tag := range tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if desc, ok := colorDescriptions[key]; ok {
			hits = append(hits, desc)
		}
	}
	switch len(hits) {
	case 0:
		return defaultColorDescription
	case 1:
		return hits[0]
	default:
		return fmt.Sprintf("a harmonious palette combining %s with %s",
			hits[0], strings.Join(hits[1:], " and "))
	}
}

func audiencePhrase(audience string) string {
	audience = strings.TrimSpace(audience)
	if audience == "" {
		return defaultAudience
	}
	return audience
}

// requirementsClause 业务类型子句 + 自定义需求 + 两条固定技术子句
func requirementsClause(req *entity.GenerationRequest) string {
	var parts []string
	if clause, ok := businessTypeClauses[strings.ToLower(strings.TrimSpace(req.BusinessType))]; ok {
		parts = append(parts, clause)
	}
	if extra := strings.TrimSpace(req.CustomPrompt); extra != "" {
		parts = append(parts, extra)
	}
	if extra := strings.TrimSpace(req.BrandDescription); extra != "" {
		parts = append(parts, "reflect the brand: "+extra)
	}
	parts = append(parts,
		"must remain crisp as a scalable vector-style mark",
		"must stay legible in monochrome",
	)
	return strings.Join(parts, "; ")
}

// aspectRatioFor 社媒横幅类业务使用宽幅，其余一律方形
func aspectRatioFor(businessType string) string {
	if strings.ToLower(strings.TrimSpace(businessType)) == "social_media" {
		return "16:9"
	}
	return "1:1"
}

// clampPrompt 截断超长提示词并追加省略标记
func clampPrompt(s string) string {
	if len(s) <= MaxPromptLength {
		return s
	}
	return s[:MaxPromptLength-3] + "..."
}

func clampSteps(steps int) int {
	if steps < MinSteps {
		return MinSteps
	}
	if steps > MaxSteps {
		return MaxSteps
	}
	return steps
}

func clampGuidance(g float64) float64 {
	if g < MinGuidance {
		return MinGuidance
	}
	if g > MaxGuidance {
		return MaxGuidance
	}
	return g
}

// ClampStrength 将编辑强度钳制到提供商接受范围
func ClampStrength(s float64) float64 {
	if s < MinStrength {
		return MinStrength
	}
	if s > MaxStrength {
		return MaxStrength
	}
	return s
}
