package aistore

import (
	"strings"
	"time"

	"github.com/guestify/mediakit-ai/internal/content"
)

// AuthorityHook is the who/what/when/how/where/why positioning statement.
type AuthorityHook struct {
	Who   string `json:"who"`
	What  string `json:"what"`
	When  string `json:"when"`
	How   string `json:"how"`
	Where string `json:"where"`
	Why   string `json:"why"`
}

// AuthorityHookFields lists the hook fields in summary order.
var AuthorityHookFields = []string{"who", "what", "when", "how", "where", "why"}

// Get returns a field by name.
func (h AuthorityHook) Get(field string) (string, bool) {
	switch field {
	case "who":
		return h.Who, true
	case "what":
		return h.What, true
	case "when":
		return h.When, true
	case "how":
		return h.How, true
	case "where":
		return h.Where, true
	case "why":
		return h.Why, true
	}
	return "", false
}

// Set writes a field by name and reports whether the name is known.
func (h *AuthorityHook) Set(field, value string) bool {
	switch field {
	case "who":
		h.Who = value
	case "what":
		h.What = value
	case "when":
		h.When = value
	case "how":
		h.How = value
	case "where":
		h.Where = value
	case "why":
		h.Why = value
	default:
		return false
	}
	return true
}

// Summary builds "I help <who> <what> when <when> by <how> in <where> because <why>",
// leaving out the clause of every empty field.
func (h AuthorityHook) Summary() string {
	var parts []string
	add := func(prefix, value string) {
		if v := strings.TrimSpace(value); v != "" {
			parts = append(parts, prefix+v)
		}
	}
	add("I help ", h.Who)
	add("", h.What)
	add("when ", h.When)
	add("by ", h.How)
	add("in ", h.Where)
	add("because ", h.Why)
	return strings.Join(parts, " ")
}

// IsValid reports whether who or what is set.
func (h AuthorityHook) IsValid() bool {
	return strings.TrimSpace(h.Who) != "" || strings.TrimSpace(h.What) != ""
}

// Filled counts the non-empty fields.
func (h AuthorityHook) Filled() int {
	n := 0
	for _, f := range AuthorityHookFields {
		if v, _ := h.Get(f); strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// ImpactIntro holds credentials and achievements in insertion order.
type ImpactIntro struct {
	Credentials  []string `json:"credentials"`
	Achievements []string `json:"achievements"`
}

// CacheEntry is a cached generation result.
type CacheEntry struct {
	Content   content.Content `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
}

// HistoryEntry records one fresh generation.
type HistoryEntry struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Params    map[string]any  `json:"params"`
	Content   content.Content `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
}

// UsageInfo is the rate-limit state reported by the backend. Nil fields are unknown.
type UsageInfo struct {
	Remaining *int `json:"remaining,omitempty"`
	Limit     *int `json:"limit,omitempty"`
	ResetTime *int `json:"reset_time,omitempty"`
}

// Preferences are the user's generation defaults.
type Preferences struct {
	DefaultTone   string `json:"defaultTone"`
	DefaultLength string `json:"defaultLength"`
	DefaultPOV    string `json:"defaultPOV"`
	AutoCopy      bool   `json:"autoCopy"`
}

// PreferencesPatch carries the preferences to change; nil fields are left alone.
type PreferencesPatch struct {
	DefaultTone   *string
	DefaultLength *string
	DefaultPOV    *string
	AutoCopy      *bool
}

func defaultPreferences() Preferences {
	return Preferences{
		DefaultTone:   "professional",
		DefaultLength: "medium",
		DefaultPOV:    "third",
	}
}
