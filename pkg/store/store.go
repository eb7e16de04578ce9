package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/subtracker/pkg/kv"
	"github.com/dmitrymomot/subtracker/pkg/logger"
	"github.com/dmitrymomot/subtracker/pkg/subscription"
)

// CreatedAtLayout is the format of Record.CreatedAt: an ISO-8601 instant in UTC
// with millisecond precision.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

const maxIDAttempts = 8

// Store is the single owner of the subscription collection.
// All methods are safe for concurrent use.
type Store struct {
	slot       kv.Slot
	key        string
	log        *slog.Logger
	now        func() time.Time
	newID      func() string
	bufferSize int

	mu          sync.RWMutex
	records     []subscription.Record
	lastWritten []byte
	closed      bool

	events *observer
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a store on top of slot and loads the persisted collection.
// If slot implements kv.Watcher, external changes are tracked until Close
// is called or ctx is done.
func New(ctx context.Context, slot kv.Slot, opts ...Option) (*Store, error) {
	if slot == nil {
		return nil, fmt.Errorf("%w: nil slot", kv.ErrInvalidConfig)
	}

	s := &Store{
		slot:  slot,
		key:   DefaultKey,
		log:   logger.Nop(),
		now:   time.Now,
		newID: defaultIDGenerator,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("store"), logger.Key(s.key))
	s.events = newObserver(s.bufferSize)

	s.Load(ctx)

	w, ok := slot.(kv.Watcher)
	if !ok {
		close(s.done)
		return s, nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	changes, err := w.Watch(watchCtx, s.key)
	if err != nil {
		cancel()
		return nil, err
	}
	s.cancel = cancel
	go s.watch(watchCtx, changes)

	return s, nil
}

// Load replaces the in-memory collection with the persisted one and returns a
// copy of it. A missing, unreadable or corrupt document yields an empty
// collection.
func (s *Store) Load(ctx context.Context) []subscription.Record {
	records, raw := s.read(ctx)

	s.mu.Lock()
	s.records = records
	s.lastWritten = raw
	s.mu.Unlock()

	return subscription.Clone(records)
}

// Save writes the current collection to the slot.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []subscription.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return subscription.Clone(s.records)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (subscription.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.records[i], true
	}
	return subscription.Record{}, false
}

// Add appends a new record with a fresh id and createdAt and persists the
// collection. The form is stored as given; callers validate it beforehand with
// FormData.Validate. When the write fails the record is still kept in memory
// and the returned error wraps ErrPersistFailed.
func (s *Store) Add(ctx context.Context, form subscription.FormData) (subscription.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueIDLocked()
	if err != nil {
		return subscription.Record{}, err
	}

	rec := subscription.NewRecord(id, s.now().UTC().Format(CreatedAtLayout), form)
	s.records = append(s.records, rec)
	s.log.DebugContext(ctx, "record added", logger.RecordID(id))
	return rec, s.persistLocked(ctx)
}

// Update replaces every field of the record except ID and CreatedAt. An
// unknown id is a no-op. Persistence errors behave as in Add.
func (s *Store) Update(ctx context.Context, id string, form subscription.FormData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}
	s.records[i].Apply(form)
	s.log.DebugContext(ctx, "record updated", logger.RecordID(id))
	return s.persistLocked(ctx)
}

// Remove deletes the record with the given id. An unknown id is a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}
	s.records = slices.Delete(s.records, i, i+1)
	s.log.DebugContext(ctx, "record removed", logger.RecordID(id))
	return s.persistLocked(ctx)
}

// Replace swaps the whole collection, e.g. with the result of an import.
// Records with a duplicate id are rejected and leave the collection unchanged.
func (s *Store) Replace(ctx context.Context, records []subscription.Record) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = subscription.Clone(records)
	return s.persistLocked(ctx)
}

// Subscribe registers for store events. The subscription ends when ctx is
// done, the subscriber is closed or the store is closed.
func (s *Store) Subscribe(ctx context.Context) Subscriber {
	return s.events.subscribe(ctx)
}

// Close stops watching the slot and closes all subscribers. It is safe to call
// more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
	s.events.close()
	return nil
}

func (s *Store) read(ctx context.Context) ([]subscription.Record, []byte) {
	raw, err := s.slot.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.ErrorContext(ctx, "failed to read collection", logger.Error(err))
		}
		return []subscription.Record{}, nil
	}
	return s.decode(ctx, raw), raw
}

func (s *Store) decode(ctx context.Context, raw []byte) []subscription.Record {
	var records []subscription.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		s.log.ErrorContext(ctx, "stored collection is corrupt", logger.Error(err))
		return []subscription.Record{}
	}
	if records == nil {
		records = []subscription.Record{}
	}
	return records
}

func (s *Store) persistLocked(ctx context.Context) error {
	if s.records == nil {
		s.records = []subscription.Record{}
	}

	data, err := json.Marshal(s.records)
	if err == nil {
		err = s.slot.Set(ctx, s.key, data)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "failed to persist collection",
			logger.Count(len(s.records)),
			logger.Error(err),
		)
		err = fmt.Errorf("%w: %w", ErrPersistFailed, err)
		s.events.publish(Event{Kind: EventPersistFailed, Err: err})
		return err
	}

	s.lastWritten = data
	return nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.records, func(r subscription.Record) bool {
		return r.ID == id
	})
}

func (s *Store) uniqueIDLocked() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && s.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return "", ErrDuplicateID
}

func (s *Store) watch(ctx context.Context, changes <-chan struct{}) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			s.reload(ctx)
		}
	}
}

// reload reads under the lock so a concurrent local write cannot be mistaken
// for an external one.
func (s *Store) reload(ctx context.Context) {
	s.mu.Lock()
	raw, err := s.slot.Get(ctx, s.key)
	switch {
	case ctx.Err() != nil:
		s.mu.Unlock()
		return
	case errors.Is(err, kv.ErrNotFound):
		raw = nil
	case err != nil:
		s.mu.Unlock()
		s.log.ErrorContext(ctx, "failed to read changed collection", logger.Error(err))
		return
	}
	if bytes.Equal(raw, s.lastWritten) {
		s.mu.Unlock()
		return
	}

	records := []subscription.Record{}
	if raw != nil {
		records = s.decode(ctx, raw)
	}
	s.records = records
	s.lastWritten = raw
	out := subscription.Clone(records)
	s.mu.Unlock()

	s.log.DebugContext(ctx, "collection reloaded", logger.Event("reloaded"), logger.Count(len(out)))
	s.events.publish(Event{Kind: EventReloaded, Records: out})
}
