package tools

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationConfig is the declarative rule set for one content type. AnyOf passes when at
// least one named field is present; Required passes when all named fields are present.
type ValidationConfig struct {
	AnyOf        []string `yaml:"any_of" json:"anyOf,omitempty"`
	Required     []string `yaml:"required" json:"required,omitempty"`
	ErrorMessage string   `yaml:"error_message" json:"errorMessage,omitempty"`
}

// Result is the outcome of Validate.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Validate evaluates cfg against params. A nil config always passes.
func Validate(cfg *ValidationConfig, params map[string]any) Result {
	if cfg == nil {
		return Result{Valid: true}
	}
	if params == nil {
		return Result{Valid: false, Message: cfg.message(append(cfg.Required, cfg.AnyOf...), true)}
	}

	var missing []string
	for _, field := range cfg.Required {
		if !IsPresent(params[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return Result{Valid: false, Message: cfg.message(missing, true)}
	}

	if len(cfg.AnyOf) > 0 {
		for _, field := range cfg.AnyOf {
			if IsPresent(params[field]) {
				return Result{Valid: true}
			}
		}
		return Result{Valid: false, Message: cfg.message(cfg.AnyOf, false)}
	}

	return Result{Valid: true}
}

func (cfg *ValidationConfig) message(fields []string, all bool) string {
	if cfg.ErrorMessage != "" {
		return cfg.ErrorMessage
	}
	if all {
		return fmt.Sprintf("Missing required fields: %s", strings.Join(fields, ", "))
	}
	return fmt.Sprintf("At least one of the following fields is required: %s", strings.Join(fields, ", "))
}

// IsPresent reports whether a parameter value counts as filled in. Nil, blank strings, and
// empty slices or maps are absent; every other value is present.
func IsPresent(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return IsPresent(rv.Elem().Interface())
	case reflect.Struct:
		return !rv.IsZero()
	}
	return true
}
