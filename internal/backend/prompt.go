package backend

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/guestify/mediakit-ai/internal/aistore"
)

var (
	leftoverPlaceholder = regexp.MustCompile(`\{\{[a-zA-Z]+\}\}`)
	horizontalSpace     = regexp.MustCompile(`[ \t]+`)
	blankLineRun        = regexp.MustCompile(`\n{3,}`)
)

// RenderPrompt substitutes {{name}} placeholders in template with params. Placeholders
// without a value are dropped and the result is tidied.
func RenderPrompt(template string, params map[string]any) string {
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{{"+k+"}}", promptValue(k, v))
	}
	out := strings.NewReplacer(pairs...).Replace(template)
	out = leftoverPlaceholder.ReplaceAllString(out, "")

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	out = strings.Join(lines, "\n")
	return strings.TrimSpace(blankLineRun.ReplaceAllString(out, "\n\n"))
}

func promptValue(key string, v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []string:
		return joinValues(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, promptValue(key, item))
		}
		return joinValues(parts)
	case map[string]any:
		if key == "authorityHook" {
			var hook aistore.AuthorityHook
			for field, fv := range val {
				hook.Set(field, promptValue(field, fv))
			}
			return hook.Summary()
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := promptValue(k, val[k]); s != "" {
				parts = append(parts, k+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(val)
	}
}

func joinValues(values []string) string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ", ")
}
