package backend

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/guestify/mediakit-ai/internal/aistore"
	"github.com/guestify/mediakit-ai/internal/core"
	"github.com/guestify/mediakit-ai/internal/store"
)

// UsageStore persists fixed-window usage counters. *store.SQLiteStore satisfies it.
type UsageStore interface {
	GetUsage(key string) (*store.UsageCounter, error)
	IncrementUsage(key string, window time.Duration, now time.Time) (*store.UsageCounter, error)
}

// Limits are the generation allowances per window for each context.
type Limits struct {
	Public  int
	Builder int
	Window  time.Duration
}

// RateLimitError is returned when the caller has used up the current window.
type RateLimitError struct {
	Usage aistore.UsageInfo
}

func (e *RateLimitError) Error() string {
	reset := 0
	if e.Usage.ResetTime != nil {
		reset = *e.Usage.ResetTime
	}
	minutes := int(math.Ceil(float64(reset) / 60))
	return fmt.Sprintf("Rate limit exceeded. Please try again in %d minutes.", minutes)
}

// RateLimiter counts generations per context and subject in fixed windows.
type RateLimiter struct {
	store  UsageStore
	limits Limits
	now    func() time.Time
}

func NewRateLimiter(s UsageStore, limits Limits) *RateLimiter {
	return &RateLimiter{store: s, limits: limits, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (l *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	l.now = now
	return l
}

func (l *RateLimiter) limit(authCtx core.AuthContext) int {
	if authCtx == core.ContextPublic {
		return l.limits.Public
	}
	return l.limits.Builder
}

func usageKey(authCtx core.AuthContext, subject string) string {
	return string(authCtx) + ":" + subject
}

// Usage reports the caller's allowance without consuming any of it.
func (l *RateLimiter) Usage(authCtx core.AuthContext, subject string) (aistore.UsageInfo, error) {
	c, err := l.store.GetUsage(usageKey(authCtx, subject))
	if err != nil {
		return aistore.UsageInfo{}, errors.Wrap(err, "failed to read usage")
	}
	return l.info(authCtx, c), nil
}

// Check returns a *RateLimitError when the caller has no generations left in the window.
func (l *RateLimiter) Check(authCtx core.AuthContext, subject string) (aistore.UsageInfo, error) {
	usage, err := l.Usage(authCtx, subject)
	if err != nil {
		return usage, err
	}
	if *usage.Remaining <= 0 {
		return usage, &RateLimitError{Usage: usage}
	}
	return usage, nil
}

// Record consumes one generation and returns the updated allowance.
func (l *RateLimiter) Record(authCtx core.AuthContext, subject string) (aistore.UsageInfo, error) {
	c, err := l.store.IncrementUsage(usageKey(authCtx, subject), l.limits.Window, l.now())
	if err != nil {
		return aistore.UsageInfo{}, errors.Wrap(err, "failed to record usage")
	}
	return l.info(authCtx, c), nil
}

func (l *RateLimiter) info(authCtx core.AuthContext, c *store.UsageCounter) aistore.UsageInfo {
	limit := l.limit(authCtx)
	window := int(l.limits.Window.Seconds())

	remaining, reset := limit, window
	if c != nil {
		elapsed := l.now().Sub(c.WindowStart)
		if elapsed < l.limits.Window {
			remaining = max(0, limit-c.Count)
			reset = int(math.Ceil((l.limits.Window - elapsed).Seconds()))
		}
	}
	return aistore.UsageInfo{Remaining: &remaining, Limit: &limit, ResetTime: &reset}
}
