package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject 从模型输出中截取第一个完整的 JSON 对象或数组。
// 模型偶尔会在 JSON 前后夹杂解释性文字，这里做容错截取。
func ExtractJSONObject(s string) string {
	trimmed := strings.TrimSpace(s)
	start := strings.IndexAny(trimmed, "{[")
	if start < 0 {
		return trimmed
	}

	closing := byte('}')
	if trimmed[start] == '[' {
		closing = ']'
	}
	end := strings.LastIndexByte(trimmed, closing)
	if end <= start {
		return trimmed
	}

	candidate := trimmed[start : end+1]
	if json.Valid([]byte(candidate)) {
		return candidate
	}
	return trimmed
}
