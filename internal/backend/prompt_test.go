package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPrompt(t *testing.T) {
	tests := []struct {
		name     string
		template string
		params   map[string]any
		want     string
	}{
		{
			name:     "plain values",
			template: "Create {{count}} taglines for {{name}}.",
			params:   map[string]any{"count": float64(5), "name": " Jane Doe "},
			want:     "Create 5 taglines for Jane Doe.",
		},
		{
			name:     "lists are joined",
			template: "Topics: {{topics}}",
			params:   map[string]any{"topics": []any{"Remote work", "", "Culture"}},
			want:     "Topics: Remote work, Culture",
		},
		{
			name:     "authority hook object",
			template: "Hook: {{authorityHook}}",
			params:   map[string]any{"authorityHook": map[string]any{"who": "founders", "what": "scale", "why": "it matters"}},
			want:     "Hook: I help founders scale because it matters",
		},
		{
			name:     "leftover placeholders are removed",
			template: "Name: {{name}}   Notes: {{notes}}\n\n\n\nDone",
			params:   map[string]any{"name": "Jane"},
			want:     "Name: Jane Notes:\n\nDone",
		},
		{
			name:     "other objects",
			template: "{{extra}}",
			params:   map[string]any{"extra": map[string]any{"b": "2", "a": "1"}},
			want:     "a: 1; b: 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderPrompt(tt.template, tt.params))
		})
	}
}
