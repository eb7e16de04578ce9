package kv

import "context"

// Slot is a durable key-value store holding one whole document per key.
type Slot interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the stored value.
	Set(ctx context.Context, key string, value []byte) error
}

// Watcher is implemented by slots that can report changes to a key.
type Watcher interface {
	// Watch returns a channel that receives a signal whenever key is written,
	// including writes made through the same slot. Signals are coalesced: a
	// slow reader sees at least one signal after the last write.
	// The channel is closed once ctx is done.
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}

// notify performs a coalescing, non-blocking send.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
