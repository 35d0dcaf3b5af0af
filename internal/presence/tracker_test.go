package presence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/clinic-api/internal/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 9, 9, 0, 0, 0, time.UTC)}
	tr := NewTracker(DefaultWindow, zerolog.Nop())
	tr.now = clock.Now
	return tr, clock
}

func TestHeartbeatRoles(t *testing.T) {
	tr, _ := newTestTracker()

	require.NoError(t, tr.Heartbeat("1", models.RoleAdmin))
	require.NoError(t, tr.Heartbeat("2", models.RoleSuperAdmin))
	assert.ErrorIs(t, tr.Heartbeat("3", "client"), ErrRoleNotAllowed)

	statuses := tr.Statuses()
	assert.Len(t, statuses, 2)
	assert.True(t, statuses["1"].IsOnline)
	assert.Equal(t, models.RoleSuperAdmin, statuses["2"].Role)
}

func TestOnlineWindow(t *testing.T) {
	tr, clock := newTestTracker()
	require.NoError(t, tr.Heartbeat("1", models.RoleAdmin))

	clock.Advance(44 * time.Second)
	assert.True(t, tr.Statuses()["1"].IsOnline)

	clock.Advance(time.Second)
	assert.False(t, tr.Statuses()["1"].IsOnline)

	require.NoError(t, tr.Heartbeat("1", models.RoleAdmin))
	assert.True(t, tr.Statuses()["1"].IsOnline)
}

func TestOffline(t *testing.T) {
	tr, _ := newTestTracker()
	require.NoError(t, tr.Heartbeat("1", models.RoleAdmin))

	tr.Offline("1")
	tr.Offline("unknown")

	statuses := tr.Statuses()
	assert.Len(t, statuses, 1)
	assert.False(t, statuses["1"].IsOnline)
}

func TestSweep(t *testing.T) {
	tr, clock := newTestTracker()
	require.NoError(t, tr.Heartbeat("1", models.RoleAdmin))
	clock.Advance(30 * time.Second)
	require.NoError(t, tr.Heartbeat("2", models.RoleAdmin))
	clock.Advance(20 * time.Second)

	assert.Equal(t, 1, tr.Sweep())
	assert.Equal(t, 0, tr.Sweep())
	assert.False(t, tr.Statuses()["1"].IsOnline)
	assert.True(t, tr.Statuses()["2"].IsOnline)
}

func TestRunStopsOnCancel(t *testing.T) {
	tr, clock := newTestTracker()
	require.NoError(t, tr.Heartbeat("1", models.RoleAdmin))
	clock.Advance(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tr.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		tr.mu.Lock()
		defer tr.mu.Unlock()
		return !tr.entries["1"].IsOnline
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
