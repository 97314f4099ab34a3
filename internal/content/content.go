// Package content models generated AI content and the parsers that turn it into
// structured results. The backend may answer with plain text, a list, or an object;
// Content keeps that distinction explicit so every parser can switch on Kind.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind discriminates the Content union.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindList
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindStructured:
		return "structured"
	default:
		return "empty"
	}
}

// Content is a generation result: Text(string) | List([]any) | Structured(map[string]any).
// The zero value is empty.
type Content struct {
	kind   Kind
	text   string
	list   []any
	fields map[string]any
}

// Empty returns the empty content.
func Empty() Content { return Content{} }

// Text wraps a string result.
func Text(s string) Content { return Content{kind: KindText, text: s} }

// List wraps a list result.
func List(items []any) Content {
	if items == nil {
		items = []any{}
	}
	return Content{kind: KindList, list: items}
}

// Structured wraps an object result.
func Structured(fields map[string]any) Content {
	if fields == nil {
		fields = map[string]any{}
	}
	return Content{kind: KindStructured, fields: fields}
}

// FromValue builds Content from a decoded JSON value.
func FromValue(v any) Content {
	switch val := v.(type) {
	case nil:
		return Empty()
	case Content:
		return val
	case string:
		return Text(val)
	case []any:
		return List(val)
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return List(items)
	case map[string]any:
		return Structured(val)
	default:
		// Round-trip through JSON so typed values (structs, []map) become plain values.
		data, err := json.Marshal(val)
		if err != nil {
			return Text(fmt.Sprint(val))
		}
		c, err := FromJSON(data)
		if err != nil {
			return Text(fmt.Sprint(val))
		}
		return c
	}
}

// FromJSON decodes raw JSON into Content. Null or missing input yields empty content.
func FromJSON(raw []byte) (Content, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Empty(), nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Empty(), fmt.Errorf("failed to decode content: %w", err)
	}
	switch v.(type) {
	case string, []any, map[string]any:
		return FromValue(v), nil
	default:
		// Numbers and booleans are kept as their JSON text.
		return Text(string(raw)), nil
	}
}

// Kind reports which variant c holds.
func (c Content) Kind() Kind { return c.kind }

// IsEmpty reports whether c carries nothing worth showing. An empty string counts as empty.
func (c Content) IsEmpty() bool {
	return c.kind == KindEmpty || (c.kind == KindText && c.text == "")
}

// Text returns the string variant.
func (c Content) Text() (string, bool) {
	return c.text, c.kind == KindText
}

// List returns the list variant.
func (c Content) List() ([]any, bool) {
	return c.list, c.kind == KindList
}

// Fields returns the structured variant.
func (c Content) Fields() (map[string]any, bool) {
	return c.fields, c.kind == KindStructured
}

// Value returns the underlying plain value.
func (c Content) Value() any {
	switch c.kind {
	case KindText:
		return c.text
	case KindList:
		return c.list
	case KindStructured:
		return c.fields
	default:
		return nil
	}
}

// String renders c for display or the clipboard: text as-is, everything else as indented JSON.
func (c Content) String() string {
	switch c.kind {
	case KindEmpty:
		return ""
	case KindText:
		return c.text
	}
	data, err := json.MarshalIndent(c.Value(), "", "  ")
	if err != nil {
		return fmt.Sprint(c.Value())
	}
	return string(data)
}

// MarshalJSON implements json.Marshaler.
func (c Content) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Content) UnmarshalJSON(data []byte) error {
	parsed, err := FromJSON(data)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Field returns a nested value from the structured variant.
func (c Content) Field(key string) (Content, bool) {
	if c.kind != KindStructured {
		return Empty(), false
	}
	v, ok := c.fields[key]
	if !ok || v == nil {
		return Empty(), false
	}
	return FromValue(v), true
}

// stringOf extracts display text from a list element or map value.
func stringOf(v any, keys ...string) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		for _, k := range keys {
			if s, ok := val[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
