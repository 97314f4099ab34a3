package aistore

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// AuthorityHook returns the shared authority hook.
func (s *Store) AuthorityHook() AuthorityHook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hook
}

// UpdateAuthorityHook sets one field. Unknown field names are ignored and reported false.
func (s *Store) UpdateAuthorityHook(field, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hook.Set(field, value)
}

// SetAuthorityHook shallow-merges the known fields of partial.
func (s *Store) SetAuthorityHook(partial map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for field, value := range partial {
		s.hook.Set(field, value)
	}
}

// ResetAuthorityHook clears all six fields.
func (s *Store) ResetAuthorityHook() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = AuthorityHook{}
}

// AuthorityHookSummary renders the hook as a sentence; empty when no field is set.
func (s *Store) AuthorityHookSummary() string {
	return s.AuthorityHook().Summary()
}

// HasValidAuthorityHook reports whether who or what is set.
func (s *Store) HasValidAuthorityHook() bool {
	return s.AuthorityHook().IsValid()
}

// ImpactIntro returns a copy of the credentials and achievements.
func (s *Store) ImpactIntro() ImpactIntro {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ImpactIntro{
		Credentials:  append([]string{}, s.impact.Credentials...),
		Achievements: append([]string{}, s.impact.Achievements...),
	}
}

// AddCredential appends a credential; blank and duplicate values are ignored.
func (s *Store) AddCredential(c string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return addUnique(&s.impact.Credentials, c)
}

// RemoveCredential deletes the credential at index.
func (s *Store) RemoveCredential(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeAt(&s.impact.Credentials, index)
}

// SetCredentials replaces the credential list with a cleaned copy of items.
func (s *Store) SetCredentials(items []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.impact.Credentials = CleanList(items)
}

// AddAchievement appends an achievement; blank and duplicate values are ignored.
func (s *Store) AddAchievement(a string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return addUnique(&s.impact.Achievements, a)
}

// RemoveAchievement deletes the achievement at index.
func (s *Store) RemoveAchievement(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeAt(&s.impact.Achievements, index)
}

// SetAchievements replaces the achievement list with a cleaned copy of items.
func (s *Store) SetAchievements(items []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.impact.Achievements = CleanList(items)
}

// CredentialsSummary joins the credentials with ", ".
func (s *Store) CredentialsSummary() string {
	return strings.Join(s.ImpactIntro().Credentials, ", ")
}

// AchievementsSummary joins the achievements with ", ".
func (s *Store) AchievementsSummary() string {
	return strings.Join(s.ImpactIntro().Achievements, ", ")
}

func addUnique(list *[]string, item string) bool {
	item = strings.TrimSpace(item)
	if item == "" {
		return false
	}
	for _, existing := range *list {
		if existing == item {
			return false
		}
	}
	*list = append(*list, item)
	return true
}

func removeAt(list *[]string, index int) bool {
	if index < 0 || index >= len(*list) {
		return false
	}
	*list = append((*list)[:index:index], (*list)[index+1:]...)
	return true
}

// Source field names per authority hook field, in priority order.
var profileHookSources = map[string][]string{
	"who":   {"hook_who", "authority_hook_who", "mkcg_authority_hook_who", "_authority_hook_who", "who", "guest_title"},
	"what":  {"hook_what", "authority_hook_what", "mkcg_authority_hook_what", "_authority_hook_what", "what"},
	"when":  {"hook_when", "authority_hook_when", "mkcg_authority_hook_when", "_authority_hook_when", "when"},
	"how":   {"hook_how", "authority_hook_how", "mkcg_authority_hook_how", "_authority_hook_how", "how"},
	"where": {"hook_where", "authority_hook_where", "mkcg_authority_hook_where", "_authority_hook_where", "where"},
	"why":   {"hook_why", "authority_hook_why", "mkcg_authority_hook_why", "_authority_hook_why", "why"},
}

// LoadFromProfileData imports authority hook fields and credential/achievement lists from
// profile data. Only fields with a matching source are overwritten; nil data is a no-op.
func (s *Store) LoadFromProfileData(data map[string]any) {
	if data == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, field := range AuthorityHookFields {
		for _, key := range profileHookSources[field] {
			if v, ok := data[key]; ok && v != nil {
				s.hook.Set(field, strings.TrimSpace(fmt.Sprint(v)))
				break
			}
		}
	}
	if items, ok := ParseList(data["credentials"]); ok {
		s.impact.Credentials = items
	}
	if items, ok := ParseList(data["achievements"]); ok {
		s.impact.Achievements = items
	}
	s.logger.Debug("loaded profile data", zap.Int("fields", len(data)))
}

// ParseList reads a list from either a comma-separated string or an array.
// ok is false when v holds neither.
func ParseList(v any) ([]string, bool) {
	switch val := v.(type) {
	case string:
		return CleanList(strings.Split(val, ",")), true
	case []string:
		return CleanList(val), true
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			if item != nil {
				items = append(items, fmt.Sprint(item))
			}
		}
		return CleanList(items), true
	}
	return nil, false
}
