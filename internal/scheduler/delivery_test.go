package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chris/journal/internal/companion"
	"github.com/chris/journal/internal/db"
	"github.com/chris/journal/internal/journal"
	"github.com/chris/journal/internal/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// gatedSender holds the first send until release is closed.
type gatedSender struct {
	mu      sync.Mutex
	started chan struct{}
	release chan struct{}
	once    sync.Once
	to      []string
}

func (g *gatedSender) Send(_ context.Context, userID, _ string, _ *companion.Menu) error {
	g.once.Do(func() {
		close(g.started)
		<-g.release
	})
	g.mu.Lock()
	g.to = append(g.to, userID)
	g.mu.Unlock()
	return nil
}

func TestCancelledPassStillDeliversEveryone(t *testing.T) {
	ctx := context.Background()
	store, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cat, err := prompts.New([]string{"What drains you?"}, []string{"Who made you laugh?"})
	require.NoError(t, err)

	now := time.Date(2025, 3, 3, 9, 0, 0, 0, sgt)
	sender := &gatedSender{started: make(chan struct{}), release: make(chan struct{})}
	c := companion.New(store, sender, cat, companion.Options{
		Location:        sgt,
		DefaultSchedule: journal.SchedulePreference{Day: 0, Hour: 9, Enabled: true},
		Logger:          zaptest.NewLogger(t),
		Now:             func() time.Time { return now },
	})
	for _, id := range []string{"a", "b"} {
		_, err := c.Start(ctx, id)
		require.NoError(t, err)
	}

	s, err := New(c, Options{
		Location:    sgt,
		Concurrency: 1,
		Notes:       store,
		Logger:      zaptest.NewLogger(t),
		Now:         func() time.Time { return now },
	})
	require.NoError(t, err)

	passCtx, cancel := context.WithCancel(ctx)
	done := make(chan TickResult)
	go func() { done <- s.Tick(passCtx) }()
	<-sender.started
	cancel()
	close(sender.release)
	res := <-done

	assert.Equal(t, 2, res.Due)
	assert.Equal(t, 2, res.Delivered)
	assert.Zero(t, res.Failed)
	assert.ElementsMatch(t, []string{"a", "b"}, sender.to)

	for _, id := range []string{"a", "b"} {
		u, err := c.User(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, u.PromptCount, id)
		assert.NotNil(t, u.LastPrompt, id)
	}

	again := s.Tick(ctx)
	assert.True(t, again.Skipped)
	assert.Zero(t, again.Delivered)
}
