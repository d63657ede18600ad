// Package command 提供自然语言编辑指令的分类与解析
package command

import (
	"strings"

	"z-logo-ai-api/internal/domain/entity"
)

// maxSuggestions 建议列表上限
const maxSuggestions = 8

// 通用编辑建议
var genericSuggestions = []string{
	"Make the colors more vibrant",
	"Give it a more minimalist look",
	"Make the text bigger",
	"Add a subtle shadow",
	"Use a darker color palette",
	"Simplify the shapes",
}

// 行业相关编辑建议
var industrySuggestions = map[string][]string{
	"technology": {
		"Make it look more futuristic",
		"Add a geometric accent",
	},
	"food": {
		"Use warmer, appetizing colors",
		"Make it feel more handcrafted",
	},
	"finance": {
		"Make it feel more established",
		"Use deeper, trustworthy blues",
	},
	"health": {
		"Soften the shapes",
		"Use calmer, natural colors",
	},
	"creative": {
		"Make it more playful",
		"Add an expressive brush-stroke touch",
	},
}

// Suggestions 返回确定性的编辑建议列表：通用建议加行业相关建议，上限 8 条
func Suggestions(current *entity.GeneratedLogo) []string {
	out := make([]string, 0, maxSuggestions)
	out = append(out, genericSuggestions...)

	if current != nil {
		industry := strings.ToLower(strings.TrimSpace(current.Metadata.Industry))
		if extra, ok := industrySuggestions[industry]; ok {
			out = append(out, extra...)
		}
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
