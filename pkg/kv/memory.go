package kv

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Slot. It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	data     map[string][]byte
	quota    int
	watchers map[string]map[chan struct{}]struct{}
}

// MemoryOption configures Memory.
type MemoryOption func(*Memory)

// WithQuota limits the total size of all stored values in bytes.
// Zero or a negative value means unlimited.
func WithQuota(bytes int) MemoryOption {
	return func(m *Memory) {
		m.quota = bytes
	}
}

// NewMemory creates an empty in-memory slot.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		data:     make(map[string][]byte),
		watchers: make(map[string]map[chan struct{}]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, ErrInvalidKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of value. A write that would push the total size over the
// quota fails with ErrQuotaExceeded and leaves the previous value in place.
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return ErrInvalidKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		total := len(value)
		for k, v := range m.data {
			if k != key {
				total += len(v)
			}
		}
		if total > m.quota {
			return fmt.Errorf("%w: %d bytes over a %d byte quota", ErrQuotaExceeded, total, m.quota)
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored

	for ch := range m.watchers[key] {
		notify(ch)
	}
	return nil
}

// Delete removes key. Watchers are not notified.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func (m *Memory) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	ch := make(chan struct{}, 1)

	m.mu.Lock()
	if m.watchers[key] == nil {
		m.watchers[key] = make(map[chan struct{}]struct{})
	}
	m.watchers[key][ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers[key], ch)
		if len(m.watchers[key]) == 0 {
			delete(m.watchers, key)
		}
		close(ch)
		m.mu.Unlock()
	}()

	return ch, nil
}
