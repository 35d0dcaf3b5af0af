package presence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/clinic-api/internal/models"
)

const DefaultWindow = 45 * time.Second

var ErrRoleNotAllowed = errors.New("only admins report presence")

type Status struct {
	IsOnline bool      `json:"isOnline"`
	Role     string    `json:"role"`
	LastSeen time.Time `json:"lastSeen"`
}

// Tracker records admin heartbeats. An admin is online while flagged online
// and last seen less than window ago.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]Status
	window  time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

func NewTracker(window time.Duration, logger zerolog.Logger) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		entries: make(map[string]Status),
		window:  window,
		now:     time.Now,
		logger:  logger,
	}
}

func (t *Tracker) Heartbeat(uid, role string) error {
	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return ErrRoleNotAllowed
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[uid] = Status{IsOnline: true, Role: role, LastSeen: t.now()}
	return nil
}

// Offline flags uid offline but keeps its last-seen time.
func (t *Tracker) Offline(uid string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.entries[uid]; ok {
		s.IsOnline = false
		s.LastSeen = t.now()
		t.entries[uid] = s
	}
}

func (t *Tracker) Statuses() map[string]Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	out := make(map[string]Status, len(t.entries))
	for uid, s := range t.entries {
		s.IsOnline = s.IsOnline && now.Sub(s.LastSeen) < t.window
		out[uid] = s
	}
	return out
}

// Sweep flags every stale entry offline and returns how many changed.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	n := 0
	for uid, s := range t.entries {
		if s.IsOnline && now.Sub(s.LastSeen) >= t.window {
			s.IsOnline = false
			t.entries[uid] = s
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = t.window / 3
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug().Msg("presence sweeper stopped")
			return
		case <-ticker.C:
			if n := t.Sweep(); n > 0 {
				t.logger.Debug().Int("count", n).Msg("marked stale admins offline")
			}
		}
	}
}
