package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guestify/mediakit-ai/internal/content"
)

func TestFormatContent(t *testing.T) {
	tests := []struct {
		name   string
		typ    string
		raw    string
		params map[string]any
		want   any
	}{
		{
			name: "biography stays text",
			typ:  "biography",
			raw:  "  OPTION 1: Jane is a coach.  ",
			want: "OPTION 1: Jane is a coach.",
		},
		{
			name:   "topics",
			typ:    "topics",
			raw:    "1. **Scaling Remote Teams** - How to grow\n2. Building Culture at Distance\n3. Hiring Well",
			params: map[string]any{"count": float64(2)},
			want: []content.Topic{
				{Title: "Scaling Remote Teams", Category: "Topic"},
				{Title: "Building Culture at Distance", Category: "Topic"},
			},
		},
		{
			name: "questions",
			typ:  "questions",
			raw:  "1. How did you start?\n2. What changed?",
			want: []string{"How did you start?", "What changed?"},
		},
		{
			name: "statements",
			typ:  "authority_hook",
			raw:  "1. I help founders raise capital fast.\n2. I help founders hire their first team.",
			want: []statement{{Text: "I help founders raise capital fast."}, {Text: "I help founders hire their first team."}},
		},
		{
			name: "offers",
			typ:  "offers",
			raw:  "ENTRY: Mini\nOne call.\nSIGNATURE: Core\nThree months.",
			want: map[content.Tier][]content.Offer{
				content.TierEntry:     {{Title: "Mini", Description: "One call."}},
				content.TierSignature: {{Title: "Core", Description: "Three months."}},
			},
		},
		{
			name: "empty shape falls back to text",
			typ:  "questions",
			raw:  "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatContent(tt.typ, tt.raw, tt.params))
		})
	}
}

func TestIntParam(t *testing.T) {
	params := map[string]any{"a": float64(4), "b": "7", "c": float64(2.5), "d": -1, "e": 3}
	assert.Equal(t, 4, intParam(params, "a", 1))
	assert.Equal(t, 7, intParam(params, "b", 1))
	assert.Equal(t, 1, intParam(params, "c", 1))
	assert.Equal(t, 1, intParam(params, "d", 1))
	assert.Equal(t, 3, intParam(params, "e", 1))
	assert.Equal(t, 9, intParam(nil, "a", 9))
}
