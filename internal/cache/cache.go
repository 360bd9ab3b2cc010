// Package cache persists the weekly record in a key value store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"wt-summariser/internal/components/chrono"
	"wt-summariser/internal/study"
)

// ErrNotFound is returned by Load when nothing is stored for the week.
var ErrNotFound = errors.New("cache: record not found")

// Store is a string key value store.
//
// note: fault injection point
type Store interface {
	// Get returns false when the key does not exist.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Key is the key the record of a week is stored under.
func Key(week chrono.Week) string {
	return fmt.Sprintf("content-%d-%d", week.Year, week.Week)
}

// Save encodes record and stores it under the week's key.
func Save(ctx context.Context, store Store, week chrono.Week, record study.Record) error {
	value, err := Encode(record)
	if err != nil {
		return err
	}
	return store.Set(ctx, Key(week), value)
}

// Load reads and decodes the record stored for week.
func Load(ctx context.Context, store Store, week chrono.Week) (study.Record, error) {
	key := Key(week)
	value, ok, err := store.Get(ctx, key)
	if err != nil {
		return study.Record{}, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok {
		return study.Record{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return Decode(value)
}
