package core

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/guestify/mediakit-ai/internal/aistore"
)

const maxNumberedProfileFields = 5

// ImpactIntroState is a local copy of the shared credentials and achievements, plus the set
// of credentials selected for the hook's "where" clause. List writes go through to the store.
type ImpactIntroState struct {
	store     *aistore.Store
	clipboard Clipboard
	log       *zap.Logger

	mu           sync.RWMutex
	credentials  []string
	achievements []string
	selected     map[string]struct{}
}

// NewImpactIntroState copies the store's lists and selects every credential.
func NewImpactIntroState(deps Deps) *ImpactIntroState {
	deps = deps.withDefaults()
	s := &ImpactIntroState{
		store:     deps.Store,
		clipboard: deps.Clipboard,
		log:       deps.Logger.Named("impact_intro"),
	}
	s.SyncFromStore()
	s.mu.Lock()
	s.selected = toSet(s.credentials)
	s.mu.Unlock()
	return s
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item] = struct{}{}
	}
	return out
}

// SyncFromStore pulls both lists from the store.
func (s *ImpactIntroState) SyncFromStore() {
	shared := s.store.ImpactIntro()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials = shared.Credentials
	s.achievements = shared.Achievements
}

// push writes the local lists to the store and adopts what the store kept.
// Callers must not hold mu.
func (s *ImpactIntroState) push() {
	s.mu.RLock()
	creds := slices.Clone(s.credentials)
	achvs := slices.Clone(s.achievements)
	s.mu.RUnlock()
	s.store.SetCredentials(creds)
	s.store.SetAchievements(achvs)
	s.SyncFromStore()
}

// Credentials returns a copy of the local credential list.
func (s *ImpactIntroState) Credentials() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.credentials)
}

// Achievements returns a copy of the local achievement list.
func (s *ImpactIntroState) Achievements() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.achievements)
}

// AddCredential appends a trimmed, new credential and selects it when autoSelect is set.
func (s *ImpactIntroState) AddCredential(credential string, autoSelect bool) bool {
	credential = strings.TrimSpace(credential)
	s.mu.Lock()
	if credential == "" || slices.Contains(s.credentials, credential) {
		s.mu.Unlock()
		return false
	}
	s.credentials = append(s.credentials, credential)
	if autoSelect {
		s.selected[credential] = struct{}{}
	}
	s.mu.Unlock()
	s.push()
	return true
}

// RemoveCredential deletes the credential at index and drops it from the selection.
func (s *ImpactIntroState) RemoveCredential(index int) bool {
	s.mu.Lock()
	if index < 0 || index >= len(s.credentials) {
		s.mu.Unlock()
		return false
	}
	delete(s.selected, s.credentials[index])
	s.credentials = slices.Delete(s.credentials, index, index+1)
	s.mu.Unlock()
	s.push()
	return true
}

// RemoveCredentialByValue is RemoveCredential for the first entry equal to credential.
func (s *ImpactIntroState) RemoveCredentialByValue(credential string) bool {
	s.mu.RLock()
	i := slices.Index(s.credentials, credential)
	s.mu.RUnlock()
	return s.RemoveCredential(i)
}

// UpdateCredential renames the credential at index, keeping its selection. Blank values and
// values already in the list are rejected.
func (s *ImpactIntroState) UpdateCredential(index int, value string) bool {
	return s.update(&s.credentials, index, value, true)
}

// ReorderCredentials moves the credential at from to position to.
func (s *ImpactIntroState) ReorderCredentials(from, to int) bool {
	return s.reorder(&s.credentials, from, to)
}

// SetCredentials replaces the credential list with its trimmed, deduplicated entries.
func (s *ImpactIntroState) SetCredentials(items []string) {
	s.mu.Lock()
	s.credentials = aistore.CleanList(items)
	s.mu.Unlock()
	s.push()
}

// AddAchievement appends a trimmed achievement not already in the list.
func (s *ImpactIntroState) AddAchievement(achievement string) bool {
	achievement = strings.TrimSpace(achievement)
	s.mu.Lock()
	if achievement == "" || slices.Contains(s.achievements, achievement) {
		s.mu.Unlock()
		return false
	}
	s.achievements = append(s.achievements, achievement)
	s.mu.Unlock()
	s.push()
	return true
}

// RemoveAchievement deletes the achievement at index.
func (s *ImpactIntroState) RemoveAchievement(index int) bool {
	s.mu.Lock()
	if index < 0 || index >= len(s.achievements) {
		s.mu.Unlock()
		return false
	}
	s.achievements = slices.Delete(s.achievements, index, index+1)
	s.mu.Unlock()
	s.push()
	return true
}

// RemoveAchievementByValue is RemoveAchievement for the first entry equal to achievement.
func (s *ImpactIntroState) RemoveAchievementByValue(achievement string) bool {
	s.mu.RLock()
	i := slices.Index(s.achievements, achievement)
	s.mu.RUnlock()
	return s.RemoveAchievement(i)
}

// UpdateAchievement replaces the achievement at index. Blank values and values already in
// the list are rejected.
func (s *ImpactIntroState) UpdateAchievement(index int, value string) bool {
	return s.update(&s.achievements, index, value, false)
}

// ReorderAchievements moves the achievement at from to position to.
func (s *ImpactIntroState) ReorderAchievements(from, to int) bool {
	return s.reorder(&s.achievements, from, to)
}

// SetAchievements replaces the achievement list with its trimmed, deduplicated entries.
func (s *ImpactIntroState) SetAchievements(items []string) {
	s.mu.Lock()
	s.achievements = aistore.CleanList(items)
	s.mu.Unlock()
	s.push()
}

func (s *ImpactIntroState) update(list *[]string, index int, value string, moveSelection bool) bool {
	value = strings.TrimSpace(value)
	s.mu.Lock()
	if index < 0 || index >= len(*list) || value == "" {
		s.mu.Unlock()
		return false
	}
	old := (*list)[index]
	if value == old {
		s.mu.Unlock()
		return true
	}
	if slices.Contains(*list, value) {
		s.mu.Unlock()
		return false
	}
	(*list)[index] = value
	if _, ok := s.selected[old]; ok && moveSelection {
		delete(s.selected, old)
		s.selected[value] = struct{}{}
	}
	s.mu.Unlock()
	s.push()
	return true
}

func (s *ImpactIntroState) reorder(list *[]string, from, to int) bool {
	s.mu.Lock()
	n := len(*list)
	if from < 0 || from >= n || to < 0 || to >= n {
		s.mu.Unlock()
		return false
	}
	item := (*list)[from]
	*list = slices.Insert(slices.Delete(*list, from, from+1), to, item)
	s.mu.Unlock()
	s.push()
	return true
}

// ToggleCredential flips the selection of credential and returns the new state.
func (s *ImpactIntroState) ToggleCredential(credential string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[credential]; ok {
		delete(s.selected, credential)
		return false
	}
	s.selected[credential] = struct{}{}
	return true
}

// SelectCredential adds credential to the selection.
func (s *ImpactIntroState) SelectCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected[credential] = struct{}{}
}

// DeselectCredential removes credential from the selection.
func (s *ImpactIntroState) DeselectCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, credential)
}

// SelectAllCredentials selects every credential in the list.
func (s *ImpactIntroState) SelectAllCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = toSet(s.credentials)
}

// DeselectAllCredentials clears the selection.
func (s *ImpactIntroState) DeselectAllCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = map[string]struct{}{}
}

// IsCredentialSelected reports whether credential is in the selection.
func (s *ImpactIntroState) IsCredentialSelected(credential string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[credential]
	return ok
}

// SelectedCredentials returns the selected credentials in list order.
func (s *ImpactIntroState) SelectedCredentials() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, c := range s.credentials {
		if _, ok := s.selected[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// SelectedCredentialsText joins the selection as an English list: "a, b, and c".
func (s *ImpactIntroState) SelectedCredentialsText() string {
	return englishList(s.SelectedCredentials())
}

// CredentialsSummary joins the credentials with ", ".
func (s *ImpactIntroState) CredentialsSummary() string { return joinList(s.Credentials()) }

// AchievementsSummary joins the achievements with ", ".
func (s *ImpactIntroState) AchievementsSummary() string { return joinList(s.Achievements()) }

// ImpactSummary is the top three credentials and top two achievements, joined by " | ".
func (s *ImpactIntroState) ImpactSummary() string {
	var parts []string
	if creds := s.Credentials(); len(creds) > 0 {
		parts = append(parts, joinList(creds[:min(3, len(creds))]))
	}
	if achvs := s.Achievements(); len(achvs) > 0 {
		parts = append(parts, joinList(achvs[:min(2, len(achvs))]))
	}
	return strings.Join(parts, " | ")
}

// HasMinimumData reports whether either list has an entry.
func (s *ImpactIntroState) HasMinimumData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.credentials) > 0 || len(s.achievements) > 0
}

// LoadFromProfileData replaces each list found in data. Loaded credentials are all selected.
// It reports whether any relevant field was present, even if it held nothing.
func (s *ImpactIntroState) LoadFromProfileData(data map[string]any) bool {
	if data == nil {
		return false
	}
	creds, credsFound := ProfileValues(data, "credentials", "hook_where", "credential")
	achvs, achvsFound := ProfileValues(data, "achievements", "hook_why", "achievement")
	if !credsFound && !achvsFound {
		return false
	}

	s.mu.Lock()
	if credsFound {
		s.credentials = aistore.CleanList(creds)
		s.selected = toSet(s.credentials)
	}
	if achvsFound {
		s.achievements = aistore.CleanList(achvs)
	}
	s.mu.Unlock()
	s.push()
	return true
}

// ProfileValues reads a list from profile data trying, in order, the plural field, the single
// hook field and the numbered fields prefix_1 to prefix_5. ok is false when none is present.
func ProfileValues(data map[string]any, plural, hookKey, prefix string) ([]string, bool) {
	if v, ok := data[plural]; ok {
		items, _ := aistore.ParseList(v)
		if items == nil {
			items = []string{}
		}
		return items, true
	}
	if v, ok := data[hookKey]; ok {
		if s := strings.TrimSpace(stringValue(v)); s != "" {
			return []string{s}, true
		}
		return []string{}, true
	}

	found := false
	out := []string{}
	for i := 1; i <= maxNumberedProfileFields; i++ {
		v, ok := data[fmt.Sprintf("%s_%d", prefix, i)]
		if !ok {
			continue
		}
		found = true
		if s := strings.TrimSpace(stringValue(v)); s != "" {
			out = append(out, s)
		}
	}
	if !found {
		return nil, false
	}
	return out, true
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// CopySummaryToClipboard copies ImpactSummary. An empty summary copies nothing.
func (s *ImpactIntroState) CopySummaryToClipboard() bool {
	summary := s.ImpactSummary()
	if summary == "" || s.clipboard == nil {
		return false
	}
	if err := s.clipboard.WriteAll(summary); err != nil {
		s.log.Warn("failed to copy to clipboard", zap.Error(err))
		return false
	}
	return true
}

// Reset clears both lists and the selection, locally and in the store.
func (s *ImpactIntroState) Reset() {
	s.mu.Lock()
	s.credentials = nil
	s.achievements = nil
	s.selected = map[string]struct{}{}
	s.mu.Unlock()
	s.push()
}

func joinList(items []string) string { return strings.Join(items, ", ") }

func englishList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}
