package store

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultKey is the slot key the collection is stored under.
const DefaultKey = "subscription-tracker-data"

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the slot key. Empty values are ignored.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces time.Now as the source of createdAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces uuid.NewString as the source of record ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithBufferSize sets the per-subscriber event buffer.
func WithBufferSize(n int) Option {
	return func(s *Store) {
		s.bufferSize = n
	}
}

func defaultIDGenerator() string {
	return uuid.NewString()
}
