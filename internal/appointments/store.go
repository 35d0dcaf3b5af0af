package appointments

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harentsoaR/clinic-api/internal/metrics"
	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/storage"
)

// errUnchanged lets a mutation report that nothing needs saving.
var errUnchanged = errors.New("appointments: unchanged")

// Store holds the ordered appointment collection in memory and persists it as
// a single document. Writes are persist-then-commit: memory only changes
// after the backing store accepted the new collection.
type Store struct {
	mu      sync.RWMutex
	records []models.Appointment
	coll    *storage.Collection[models.Appointment]
	metrics *metrics.ClinicMetrics
}

func NewStore(kv storage.KV, m *metrics.ClinicMetrics) *Store {
	return &Store{
		records: []models.Appointment{},
		coll:    storage.NewCollection[models.Appointment](kv, storage.KeyAppointments),
		metrics: m,
	}
}

// Load replaces the in-memory collection with the persisted one.
func (s *Store) Load(ctx context.Context) ([]models.Appointment, error) {
	records, err := s.coll.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return clone(records), nil
}

// Snapshot returns a copy of the current collection.
func (s *Store) Snapshot() []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.records)
}

// Save persists records and then makes them current.
func (s *Store) Save(ctx context.Context, records []models.Appointment) error {
	return s.Mutate(ctx, func([]models.Appointment) ([]models.Appointment, error) {
		return clone(records), nil
	})
}

func (s *Store) Upsert(ctx context.Context, rec models.Appointment) error {
	return s.Mutate(ctx, func(current []models.Appointment) ([]models.Appointment, error) {
		return Upsert(current, rec), nil
	})
}

func (s *Store) Remove(ctx context.Context, id string) error {
	return s.Mutate(ctx, func(current []models.Appointment) ([]models.Appointment, error) {
		if indexOf(current, id) < 0 {
			return nil, errUnchanged
		}
		return Remove(current, id), nil
	})
}

// Mutate runs fn on a copy of the collection and persists its result. The
// write lock is held throughout, so validation inside fn sees the same state
// that gets replaced.
func (s *Store) Mutate(ctx context.Context, fn func(current []models.Appointment) ([]models.Appointment, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(clone(s.records))
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.coll.Save(ctx, next)
	s.metrics.ObserveSave(storage.KeyAppointments, err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.records = next
	return nil
}

// Upsert replaces the record with the same id in place, or appends it.
func Upsert(records []models.Appointment, rec models.Appointment) []models.Appointment {
	next := clone(records)
	if i := indexOf(next, rec.ID); i >= 0 {
		next[i] = rec
		return next
	}
	return append(next, rec)
}

// Remove filters out the record with id.
func Remove(records []models.Appointment, id string) []models.Appointment {
	next := make([]models.Appointment, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			next = append(next, r)
		}
	}
	return next
}

func indexOf(records []models.Appointment, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(records []models.Appointment) []models.Appointment {
	out := make([]models.Appointment, len(records))
	copy(out, records)
	return out
}
