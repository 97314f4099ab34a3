package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/guestify/mediakit-ai/internal/content"
	"github.com/guestify/mediakit-ai/internal/core"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Generation or server failure
	ExitCommandError = 2 // Bad flags, arguments or configuration
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func commandError(format string, args ...any) *ExitError {
	return &ExitError{Code: ExitCommandError, Message: fmt.Sprintf(format, args...)}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResult prints a generation result in the requested format.
func writeResult(w io.Writer, format string, result any) error {
	if format == "json" {
		return writeJSON(w, result)
	}
	_, err := io.WriteString(w, renderText(result))
	return err
}

func renderText(result any) string {
	var b strings.Builder
	switch r := result.(type) {
	case map[core.SlotName][]content.Variation:
		for _, slot := range core.SlotNames {
			vs, ok := r[slot]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "== %s ==\n", strings.ToUpper(string(slot)))
			writeVariations(&b, vs)
		}
	case []content.Variation:
		writeVariations(&b, r)
	case []content.Topic:
		for i, t := range r {
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, t.Title, t.Category)
		}
	case []string:
		for i, s := range r {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
	case map[content.Tier][]content.Offer:
		for _, tier := range content.Tiers {
			offers, ok := r[tier]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "== %s ==\n", strings.ToUpper(string(tier)))
			writeOffers(&b, offers)
		}
	case []content.Offer:
		writeOffers(&b, r)
	default:
		fmt.Fprintf(&b, "%v\n", r)
	}
	return b.String()
}

func writeVariations(b *strings.Builder, vs []content.Variation) {
	for i, v := range vs {
		if v.Label != "" {
			fmt.Fprintf(b, "%d. [%s] %s\n", i+1, v.Label, v.Text)
		} else {
			fmt.Fprintf(b, "%d. %s\n", i+1, v.Text)
		}
	}
}

func writeOffers(b *strings.Builder, offers []content.Offer) {
	for i, o := range offers {
		fmt.Fprintf(b, "%d. %s\n", i+1, o.Title)
		if o.Description != "" {
			fmt.Fprintf(b, "   %s\n", o.Description)
		}
	}
}

// firstText picks the text a --copy flag puts on the clipboard.
func firstText(result any) string {
	switch r := result.(type) {
	case map[core.SlotName][]content.Variation:
		for _, slot := range core.SlotNames {
			if vs := r[slot]; len(vs) > 0 {
				return vs[0].Text
			}
		}
	case []content.Variation:
		if len(r) > 0 {
			return r[0].Text
		}
	case []content.Topic:
		if len(r) > 0 {
			return r[0].Title
		}
	case []string:
		if len(r) > 0 {
			return r[0]
		}
	case map[content.Tier][]content.Offer:
		for _, tier := range content.Tiers {
			if offers := r[tier]; len(offers) > 0 {
				return offers[0].Title
			}
		}
	case []content.Offer:
		if len(r) > 0 {
			return r[0].Title
		}
	}
	return ""
}
