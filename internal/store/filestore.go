// Package store owns the durable order collection: a single JSON file that is
// reloaded before every read or mutation and fully rewritten after every
// mutation, so the file always wins over in-memory state.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/kebtye/orderdesk/internal/orders"
)

type Store struct {
	path string
	log  *zap.Logger

	mu   sync.Mutex
	list []orders.Order
}

func New(path string, log *zap.Logger) *Store {
	s := &Store{path: path, log: log}
	s.mu.Lock()
	s.load()
	s.mu.Unlock()
	return s
}

// load replaces the in-memory collection with the file contents. A missing,
// blank, malformed, or non-array file resets the collection to empty; the
// reset is logged and never surfaced to callers. Caller holds mu.
func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("order file unreadable, resetting", zap.String("path", s.path), zap.Error(err))
		}
		s.list = nil
		return
	}
	var parsed []orders.Order
	if err := json.Unmarshal(raw, &parsed); err != nil {
		s.log.Warn("order file corrupt, resetting", zap.String("path", s.path), zap.Error(err))
		s.list = nil
		return
	}
	s.list = parsed
}

// save rewrites the whole file. Pretty-printed, not atomic; a crash mid-write
// is an accepted risk at this scale. Caller holds mu.
func (s *Store) save() error {
	list := s.list
	if list == nil {
		list = []orders.Order{} // the file always holds an array, never null
	}
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Append adds one order and persists the collection.
func (s *Store) Append(o orders.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	s.list = append(s.list, o)
	return s.save()
}

// FindByID reloads and scans for the order with the given id.
func (s *Store) FindByID(id int64) (orders.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	for _, o := range s.list {
		if o.ID == id {
			return o, true
		}
	}
	return orders.Order{}, false
}

// List reloads and returns the full collection in insertion order.
func (s *Store) List() []orders.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	out := make([]orders.Order, len(s.list))
	copy(out, s.list)
	return out
}

// UpdateStatus sets the status of the order with the given id and persists.
// The second return is false when no such order exists; that is a no-op, not
// an error, and nothing is written.
func (s *Store) UpdateStatus(id int64, status string) (orders.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i].Status = status
			return s.list[i], true, s.save()
		}
	}
	return orders.Order{}, false, nil
}

// Remove drops the order with the given id and persists. Removing an id that
// was never created still rewrites the unchanged collection and reports false.
func (s *Store) Remove(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	kept := s.list[:0]
	removed := false
	for _, o := range s.list {
		if o.ID == id {
			removed = true
			continue
		}
		kept = append(kept, o)
	}
	s.list = kept
	return removed, s.save()
}
