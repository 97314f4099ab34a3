package backend

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestify/mediakit-ai/internal/core"
	"github.com/guestify/mediakit-ai/internal/store"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "backend.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRateLimiterWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	l := NewRateLimiter(newTestStore(t), Limits{Public: 2, Builder: 10, Window: time.Hour}).WithClock(clock.Now)

	usage, err := l.Usage(core.ContextPublic, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, 2, *usage.Remaining)
	assert.Equal(t, 2, *usage.Limit)
	assert.Equal(t, 3600, *usage.ResetTime)

	_, err = l.Check(core.ContextPublic, "203.0.113.7")
	require.NoError(t, err)
	usage, err = l.Record(core.ContextPublic, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, 1, *usage.Remaining)

	clock.Advance(15 * time.Minute)
	_, err = l.Record(core.ContextPublic, "203.0.113.7")
	require.NoError(t, err)

	usage, err = l.Check(core.ContextPublic, "203.0.113.7")
	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 0, *usage.Remaining)
	assert.Equal(t, 2700, *rlErr.Usage.ResetTime)
	assert.Equal(t, "Rate limit exceeded. Please try again in 45 minutes.", rlErr.Error())

	usage, err = l.Check(core.ContextBuilder, "203.0.113.7")
	require.NoError(t, err, "contexts are counted separately")
	assert.Equal(t, 10, *usage.Remaining)

	clock.Advance(45 * time.Minute)
	usage, err = l.Check(core.ContextPublic, "203.0.113.7")
	require.NoError(t, err, "a new window starts once the old one ends")
	assert.Equal(t, 2, *usage.Remaining)
}
