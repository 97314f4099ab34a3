// Package aistore is the session-scoped shared state of the AI generators: the result
// cache, generation history, the authority hook and impact intro records, preferences,
// and the usage/rate-limit counters reported by the backend.
package aistore

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/guestify/mediakit-ai/internal/content"
)

const (
	// CacheTTL is how long a cached result stays valid.
	CacheTTL = 30 * time.Minute
	// MaxHistory bounds the generation history.
	MaxHistory = 10
)

// Store is safe for concurrent use. Getters return copies.
type Store struct {
	mu     sync.RWMutex
	now    func() time.Time
	logger *zap.Logger

	cache       map[string]CacheEntry
	history     []HistoryEntry
	hook        AuthorityHook
	impact      ImpactIntro
	prefs       Preferences
	usage       UsageInfo
	generating  bool
	currentType string
	lastError   string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mostly for cache expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.cache = make(map[string]CacheEntry)
	s.history = nil
	s.hook = AuthorityHook{}
	s.impact = ImpactIntro{Credentials: []string{}, Achievements: []string{}}
	s.prefs = defaultPreferences()
	s.usage = UsageInfo{}
	s.generating = false
	s.currentType = ""
	s.lastError = ""
}

// ResetAll returns every field to its initial value.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// --- cache ---

// GetCachedResult returns a live cache entry. Expired entries are evicted and reported absent.
func (s *Store) GetCachedResult(key string) (content.Content, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[key]
	if !ok {
		return content.Empty(), false
	}
	if s.now().Sub(entry.Timestamp) >= CacheTTL {
		delete(s.cache, key)
		s.logger.Debug("cache entry expired", zap.String("key", key))
		return content.Empty(), false
	}
	return entry.Content, true
}

// CacheResult stores c under key with the current time.
func (s *Store) CacheResult(key string, c content.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = CacheEntry{Content: c, Timestamp: s.now()}
}

// HasCachedResult reports whether key holds a live entry.
func (s *Store) HasCachedResult(key string) bool {
	_, ok := s.GetCachedResult(key)
	return ok
}

// EvictCachedResult removes one cache entry.
func (s *Store) EvictCachedResult(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, key)
}

// ClearCache removes every cache entry.
func (s *Store) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]CacheEntry)
}

// CacheSize counts stored entries, expired ones included until they are read.
func (s *Store) CacheSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// --- history ---

// AddToHistory records a generation at the head of the history and drops the oldest
// entries beyond MaxHistory.
func (s *Store) AddToHistory(typ string, params map[string]any, c content.Content) HistoryEntry {
	entry := HistoryEntry{
		ID:        uuid.NewString(),
		Type:      typ,
		Params:    copyParams(params),
		Content:   c,
		Timestamp: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]HistoryEntry{entry}, s.history...)
	if len(s.history) > MaxHistory {
		s.history = s.history[:MaxHistory]
	}
	return entry
}

// History returns all entries, newest first.
func (s *Store) History() []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// GetHistoryByType returns the entries of one content type, newest first.
func (s *Store) GetHistoryByType(typ string) []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []HistoryEntry
	for _, h := range s.history {
		if h.Type == typ {
			out = append(out, h)
		}
	}
	return out
}

// LatestByType returns the newest entry of one content type.
func (s *Store) LatestByType(typ string) (HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.history {
		if h.Type == typ {
			return h, true
		}
	}
	return HistoryEntry{}, false
}

// ClearHistory empties the history.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func copyParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// --- preferences ---

// Preferences returns the current preferences.
func (s *Store) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// UpdatePreferences merges the non-nil fields of p.
func (s *Store) UpdatePreferences(p PreferencesPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.DefaultTone != nil {
		s.prefs.DefaultTone = *p.DefaultTone
	}
	if p.DefaultLength != nil {
		s.prefs.DefaultLength = *p.DefaultLength
	}
	if p.DefaultPOV != nil {
		s.prefs.DefaultPOV = *p.DefaultPOV
	}
	if p.AutoCopy != nil {
		s.prefs.AutoCopy = *p.AutoCopy
	}
}

// --- usage ---

// Usage returns the last known usage.
func (s *Store) Usage() UsageInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage
}

// UpdateUsage merges only the fields present in u.
func (s *Store) UpdateUsage(u UsageInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Remaining != nil {
		v := *u.Remaining
		s.usage.Remaining = &v
	}
	if u.Limit != nil {
		v := *u.Limit
		s.usage.Limit = &v
	}
	if u.ResetTime != nil {
		v := *u.ResetTime
		s.usage.ResetTime = &v
	}
}

// IsRateLimited reports whether the backend said no generations remain.
func (s *Store) IsRateLimited() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage.Remaining != nil && *s.usage.Remaining == 0
}

// UsagePercentage is the share of the limit already used, 0 when unknown.
func (s *Store) UsagePercentage() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.usage.Limit == nil || s.usage.Remaining == nil || *s.usage.Limit <= 0 {
		return 0
	}
	limit := float64(*s.usage.Limit)
	return (limit - float64(*s.usage.Remaining)) / limit * 100
}

// --- generation state ---

// SetGenerating flags a generation in progress. The type tag tracks the most recent start
// only; clearing the flag clears the tag.
func (s *Store) SetGenerating(generating bool, typ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = generating
	if generating {
		s.currentType = typ
	} else {
		s.currentType = ""
	}
}

// IsGenerating reports the generation-in-progress flag.
func (s *Store) IsGenerating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generating
}

// CurrentType is the type of the most recently started generation.
func (s *Store) CurrentType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentType
}

// SetError records the last error message.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

// ClearError clears the last error.
func (s *Store) ClearError() {
	s.SetError("")
}

// LastError returns the last error message, empty when none.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// CleanList trims items and drops blanks and repeats, keeping first occurrences in order.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
