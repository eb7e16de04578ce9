package store

import (
	"context"
	"sync"

	"github.com/dmitrymomot/subtracker/pkg/subscription"
)

// EventKind identifies what happened to the collection.
type EventKind string

const (
	// EventReloaded is sent after the slot was changed by another writer and the
	// store replaced its collection with the persisted one.
	EventReloaded EventKind = "reloaded"
	// EventPersistFailed is sent when writing the collection to the slot failed.
	EventPersistFailed EventKind = "persist_failed"
)

// Event is delivered to subscribers.
type Event struct {
	Kind    EventKind
	Records []subscription.Record // collection after a reload
	Err     error                 // cause of a failed write
}

// Subscriber receives store events until it is closed.
type Subscriber interface {
	// Events returns the channel events are delivered on. It is closed when the
	// subscriber is closed, the subscription context ends or the store closes.
	Events() <-chan Event
	Close() error
}

type subscriber struct {
	ch     chan Event
	closed bool
	stop   func() bool
	mu     sync.RWMutex
}

func (s *subscriber) Events() <-chan Event {
	return s.ch
}

func (s *subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send never blocks. It reports false when the event was not delivered.
func (s *subscriber) send(ev Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// observer fans events out to subscribers. Subscribers whose buffer is full
// are dropped.
type observer struct {
	subs       map[*subscriber]struct{}
	bufferSize int
	closed     bool
	mu         sync.RWMutex
}

func newObserver(bufferSize int) *observer {
	return &observer{
		subs:       make(map[*subscriber]struct{}),
		bufferSize: max(bufferSize, 1),
	}
}

func (o *observer) subscribe(ctx context.Context) *subscriber {
	o.mu.Lock()
	defer o.mu.Unlock()

	sub := &subscriber{ch: make(chan Event, o.bufferSize)}
	if o.closed {
		_ = sub.Close()
		return sub
	}
	o.subs[sub] = struct{}{}

	sub.stop = context.AfterFunc(ctx, func() { o.remove(sub) })
	return sub
}

func (o *observer) publish(ev Event) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return
	}
	for sub := range o.subs {
		if !sub.send(ev) {
			go o.remove(sub)
		}
	}
}

func (o *observer) remove(sub *subscriber) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.subs, sub)
	if sub.stop != nil {
		sub.stop()
	}
	_ = sub.Close()
}

func (o *observer) close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	for sub := range o.subs {
		if sub.stop != nil {
			sub.stop()
		}
		_ = sub.Close()
	}
	clear(o.subs)
	o.mu.Unlock()
}
