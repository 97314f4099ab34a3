// Package tools holds the metadata registry for the AI generators: the API type each
// generator posts as, its validation rules, and the prompt settings the backend uses.
package tools

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed tools.yaml
var defaultToolsYAML []byte

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 500
)

// Tool describes one content generator.
type Tool struct {
	Type         string            `yaml:"type"`
	APIType      string            `yaml:"api_type"`
	Label        string            `yaml:"label"`
	Validation   *ValidationConfig `yaml:"validation"`
	SystemPrompt string            `yaml:"system_prompt"`
	Template     string            `yaml:"template"`
	Temperature  float32           `yaml:"temperature"`
	MaxTokens    int32             `yaml:"max_tokens"`
}

type registryFile struct {
	DefaultSystemPrompt string `yaml:"default_system_prompt"`
	DefaultTemplate     string `yaml:"default_template"`
	Tools               []Tool `yaml:"tools"`
}

// Registry is an in-memory lookup of tools keyed by content type.
type Registry struct {
	defaultSystemPrompt string
	defaultTemplate     string
	tools               map[string]Tool
}

// Resolver looks up the validation rules for a content type.
type Resolver interface {
	Resolve(contentType string) *ValidationConfig
}

// Default parses the embedded registry. It panics only if the embedded file is malformed.
func Default() *Registry {
	r, err := Parse(defaultToolsYAML)
	if err != nil {
		panic(fmt.Sprintf("tools: embedded registry is invalid: %v", err))
	}
	return r
}

// Load reads a registry file from path. An empty path returns the embedded registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tools file: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML.
func Parse(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse tools file: %w", err)
	}

	r := &Registry{
		defaultSystemPrompt: f.DefaultSystemPrompt,
		defaultTemplate:     f.DefaultTemplate,
		tools:               make(map[string]Tool, len(f.Tools)),
	}
	for _, t := range f.Tools {
		if t.Type == "" {
			return nil, fmt.Errorf("tool with label %q has no type", t.Label)
		}
		if _, dup := r.tools[t.Type]; dup {
			return nil, fmt.Errorf("duplicate tool type %q", t.Type)
		}
		if t.APIType == "" {
			t.APIType = t.Type
		}
		r.tools[t.Type] = t
	}
	return r, nil
}

// Lookup returns the tool for a content type.
func (r *Registry) Lookup(contentType string) (Tool, bool) {
	t, ok := r.tools[contentType]
	return t, ok
}

// Resolve implements Resolver.
func (r *Registry) Resolve(contentType string) *ValidationConfig {
	t, ok := r.tools[contentType]
	if !ok {
		return nil
	}
	return t.Validation
}

// APIType maps a content type to the type sent on the wire; unknown types pass through.
func (r *Registry) APIType(contentType string) string {
	if t, ok := r.tools[contentType]; ok {
		return t.APIType
	}
	return contentType
}

// Types lists registered content types in sorted order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.tools))
	for k := range r.tools {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SystemPrompt returns the tool's system prompt or the registry default.
func (r *Registry) SystemPrompt(contentType string) string {
	if t, ok := r.tools[contentType]; ok && t.SystemPrompt != "" {
		return t.SystemPrompt
	}
	return r.defaultSystemPrompt
}

// Template returns the tool's prompt template or the registry default.
func (r *Registry) Template(contentType string) string {
	if t, ok := r.tools[contentType]; ok && t.Template != "" {
		return t.Template
	}
	return r.defaultTemplate
}

// Temperature returns the sampling temperature for a content type.
func (r *Registry) Temperature(contentType string) float32 {
	if t, ok := r.tools[contentType]; ok && t.Temperature > 0 {
		return t.Temperature
	}
	return defaultTemperature
}

// MaxTokens returns the output token budget for a content type.
func (r *Registry) MaxTokens(contentType string) int32 {
	if t, ok := r.tools[contentType]; ok && t.MaxTokens > 0 {
		return t.MaxTokens
	}
	return defaultMaxTokens
}
