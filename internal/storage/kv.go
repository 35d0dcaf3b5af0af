package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Document keys.
const (
	KeyAppointments = "appointments"
	KeyPatients     = "patients"
	KeyAdmins       = "admins"
)

// KV is the whole-document persistence contract. Get returns (nil, nil) for
// an absent key. Set replaces the stored document; there is no partial patch,
// so concurrent writers of the same key overwrite each other.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Collection stores an ordered list of T as one JSON array under a key.
type Collection[T any] struct {
	kv  KV
	key string
}

func NewCollection[T any](kv KV, key string) *Collection[T] {
	return &Collection[T]{kv: kv, key: key}
}

func (c *Collection[T]) Key() string { return c.key }

// Load returns the stored records, or an empty slice when nothing is stored.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("storage: load %s: %w", c.key, err)
	}
	records := []T{}
	if len(raw) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", c.key, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save overwrites the stored array with records.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", c.key, err)
	}
	if err := c.kv.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("storage: save %s: %w", c.key, err)
	}
	return nil
}
