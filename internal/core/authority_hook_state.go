package core

import (
	"math"
	"sync"

	"github.com/guestify/mediakit-ai/internal/aistore"
)

// AuthorityHookState is a local copy of the shared authority hook. Local writes go through
// to the store; changes made elsewhere are only seen after SyncFromStore.
type AuthorityHookState struct {
	store *aistore.Store

	mu   sync.RWMutex
	hook aistore.AuthorityHook
}

// NewAuthorityHookState copies the store's current hook.
func NewAuthorityHookState(store *aistore.Store) *AuthorityHookState {
	return &AuthorityHookState{store: store, hook: store.AuthorityHook()}
}

// Set writes one field locally and in the store. Unknown fields are ignored.
func (a *AuthorityHookState) Set(field, value string) bool {
	a.mu.Lock()
	ok := a.hook.Set(field, value)
	a.mu.Unlock()
	if ok {
		a.store.UpdateAuthorityHook(field, value)
	}
	return ok
}

// Get returns one field of the local hook, or "" for an unknown field.
func (a *AuthorityHookState) Get(field string) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, _ := a.hook.Get(field)
	return v
}

// Hook returns a copy of the local hook.
func (a *AuthorityHookState) Hook() aistore.AuthorityHook {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.hook
}

// SyncFromStore pulls the store's hook into the local copy.
func (a *AuthorityHookState) SyncFromStore() {
	h := a.store.AuthorityHook()
	a.mu.Lock()
	a.hook = h
	a.mu.Unlock()
}

// Summary renders the hook as a sentence.
func (a *AuthorityHookState) Summary() string { return a.Hook().Summary() }

// CompletionPercentage is the share of the six fields that are filled, rounded.
func (a *AuthorityHookState) CompletionPercentage() int {
	filled := a.Hook().Filled()
	return int(math.Round(float64(filled) / float64(len(aistore.AuthorityHookFields)) * 100))
}

// IsValid reports whether who or what is set.
func (a *AuthorityHookState) IsValid() bool { return a.Hook().IsValid() }

// IsComplete reports whether all six fields are set.
func (a *AuthorityHookState) IsComplete() bool {
	return a.Hook().Filled() == len(aistore.AuthorityHookFields)
}

// LoadFromProfileData imports hook fields into the store, then syncs.
func (a *AuthorityHookState) LoadFromProfileData(data map[string]any) {
	a.store.LoadFromProfileData(data)
	a.SyncFromStore()
}

// Reset clears the hook locally and in the store.
func (a *AuthorityHookState) Reset() {
	a.mu.Lock()
	a.hook = aistore.AuthorityHook{}
	a.mu.Unlock()
	a.store.ResetAuthorityHook()
}
