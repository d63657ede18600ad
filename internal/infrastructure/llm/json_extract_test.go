package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"action":"recolor"}`,
			want: `{"action":"recolor"}`,
		},
		{
			name: "object with surrounding prose",
			in:   "Sure, here is the result:\n{\"action\":\"recolor\",\"target\":\"background\"}\nHope that helps!",
			want: `{"action":"recolor","target":"background"}`,
		},
		{
			name: "markdown fenced",
			in:   "```json\n{\"action\":\"recolor\"}\n```",
			want: `{"action":"recolor"}`,
		},
		{
			name: "array",
			in:   `prefix ["a","b"] suffix`,
			want: `["a","b"]`,
		},
		{
			name: "nested braces",
			in:   `note {"outer":{"inner":1}} done`,
			want: `{"outer":{"inner":1}}`,
		},
		{
			name: "no json at all",
			in:   "  just some text  ",
			want: "just some text",
		},
		{
			name: "invalid candidate returned as-is",
			in:   "{not valid json}",
			want: "{not valid json}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.in))
		})
	}
}
