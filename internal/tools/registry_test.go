package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	for _, typ := range []string{
		"biography", "topics", "questions", "tagline", "guest_intro",
		"offers", "conversion-offers", "authority_hook", "impact_intro",
	} {
		tool, ok := r.Lookup(typ)
		require.True(t, ok, "missing tool %s", typ)
		assert.NotEmpty(t, tool.APIType)
		assert.NotNil(t, r.Resolve(typ), "tool %s should declare validation", typ)
		assert.NotEmpty(t, r.Template(typ))
		assert.NotEmpty(t, r.SystemPrompt(typ))
	}
}

func TestDefaultRegistry_MatchesBackendRules(t *testing.T) {
	r := Default()

	bio := r.Resolve("biography")
	assert.False(t, Validate(bio, map[string]any{}).Valid)
	assert.True(t, Validate(bio, map[string]any{"name": "John"}).Valid)
	assert.True(t, Validate(bio, map[string]any{"authorityHook": "Expert"}).Valid)

	topics := r.Resolve("topics")
	assert.True(t, Validate(topics, map[string]any{"expertise": "Marketing"}).Valid)

	questions := r.Resolve("questions")
	assert.True(t, Validate(questions, map[string]any{"topics": []string{"Topic 1"}}).Valid)

	intro := r.Resolve("guest_intro")
	assert.True(t, Validate(intro, map[string]any{"credentials": []string{"PhD"}}).Valid)
	assert.Contains(t, Validate(intro, map[string]any{}).Message, "required")
}

func TestRegistry_UnknownType(t *testing.T) {
	r := Default()

	assert.Nil(t, r.Resolve("press_release"))
	assert.Equal(t, "press_release", r.APIType("press_release"))
	assert.Equal(t, float32(defaultTemperature), r.Temperature("press_release"))
	assert.Equal(t, int32(defaultMaxTokens), r.MaxTokens("press_release"))
	assert.Contains(t, r.Template("press_release"), "{{authorityHook}}")
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.yaml")
	content := `
tools:
  - type: bio
    api_type: biography
    validation:
      required: [name]
    temperature: 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"bio"}, r.Types())
	assert.Equal(t, "biography", r.APIType("bio"))
	assert.Equal(t, float32(0.2), r.Temperature("bio"))
	assert.Equal(t, []string{"name"}, r.Resolve("bio").Required)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("tools:\n  - label: nameless\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("tools:\n  - type: a\n  - type: a\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("tools: [: bad"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
