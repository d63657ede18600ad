// Package command 提供自然语言编辑指令的分类与解析
package command

import (
	"regexp"
	"strings"

	"z-logo-ai-api/internal/domain/entity"
)

// kindPattern 指令类型匹配表中的一项
type kindPattern struct {
	kind entity.CommandKind
	re   *regexp.Regexp
}

// 按序匹配的指令类型表，先命中者胜出。
// 顺序有意为之：文本编辑要先于尺寸调整（"make the text bigger" 属于文本编辑）。
var kindPatterns = []kindPattern{
	{entity.CommandColorChange, regexp.MustCompile(`\b(colou?rs?|blue|red|green|yellow|orange|purple|pink|black|white|gold|teal|hue|palette|darker|lighter|brighter|vibrant|saturat\w*)\b`)},
	{entity.CommandStyleChange, regexp.MustCompile(`\b(style|modern|minimal\w*|vintage|retro|elegant|playful|professional|sleek|clean|flat|classic)\b`)},
	{entity.CommandTextEdit, regexp.MustCompile(`\b(text|font|letters?|words?|name|typography|spelling|tagline|title)\b`)},
	{entity.CommandLayoutAdjustment, regexp.MustCompile(`\b(layout|position|move|center|centre|align\w*|arrange\w*|spacing|left|right|top|bottom)\b`)},
	{entity.CommandSizeChange, regexp.MustCompile(`\b(size|bigger|smaller|larger|tiny|huge|scale|shrink|enlarge|resize|grow)\b`)},
	{entity.CommandShapeModification, regexp.MustCompile(`\b(shapes?|circle|circular|square|round\w*|triangle|curves?|edges?|corners?|geometr\w*)\b`)},
	{entity.CommandEffectAddition, regexp.MustCompile(`\b(shadow|glow|gradient|outline|3d|effects?|emboss\w*|textures?|reflection|metallic)\b`)},
	{entity.CommandElementRemoval, regexp.MustCompile(`\b(remove|delete|erase|without|strip|get rid of)\b`)},
	{entity.CommandSeasonalAdaptation, regexp.MustCompile(`\b(christmas|halloween|easter|winter|summer|spring|autumn|fall|holiday|seasonal|festive)\b`)},
}

// Classify 将自由文本指令归类为固定的指令类型之一。
// 未命中任何模式时默认为风格调整。
func Classify(text string) entity.CommandKind {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, p := range kindPatterns {
		if p.re.MatchString(lowered) {
			return p.kind
		}
	}
	return entity.CommandStyleChange
}

// 强度关键词表，按序扫描，先命中者胜出
var intensityKeywords = []struct {
	word     string
	strength float64
}{
	{"subtle", 0.3},
	{"subtly", 0.3},
	{"slightly", 0.4},
	{"slight", 0.4},
	{"a bit", 0.4},
	{"a little", 0.4},
	{"moderately", 0.5},
	{"somewhat", 0.5},
	{"noticeably", 0.6},
	{"strongly", 0.8},
	{"very", 0.8},
	{"much", 0.8},
	{"dramatically", 1.0},
	{"dramatic", 1.0},
	{"drastically", 1.0},
	{"completely", 1.0},
	{"totally", 1.0},
}

// 各指令类型的默认强度，文本编辑要求更高的重绘力度
var defaultStrengths = map[entity.CommandKind]float64{
	entity.CommandColorChange:        0.7,
	entity.CommandStyleChange:        0.6,
	entity.CommandTextEdit:           0.8,
	entity.CommandLayoutAdjustment:   0.5,
	entity.CommandSizeChange:         0.4,
	entity.CommandShapeModification:  0.6,
	entity.CommandEffectAddition:     0.6,
	entity.CommandElementRemoval:     0.5,
	entity.CommandSeasonalAdaptation: 0.7,
}

// DeriveStrength 派生编辑强度：优先匹配强度关键词，否则按指令类型取默认值
func DeriveStrength(text string, kind entity.CommandKind) float64 {
	lowered := strings.ToLower(text)
	for _, kw := range intensityKeywords {
		if strings.Contains(lowered, kw.word) {
			return kw.strength
		}
	}
	if s, ok := defaultStrengths[kind]; ok {
		return s
	}
	return 0.6
}
