// Package view holds the client-side mirror of server data that the
// dashboard reads. Views are keyed by query identity and written exclusively
// by the mutation gateway and the refresh paths; values are treated as
// immutable once written, so restoring a snapshot is exact.
package view

import (
	"sync"
)

// Keys for the views this subsystem maintains.
const (
	VendorOrdersKey  = "vendor:orders"
	NotificationsKey = "vendor:notifications"
)

// OrderKey is the view key for a single order by id.
func OrderKey(orderID string) string {
	return "order:" + orderID
}

// WorkflowKey is the view key for an order's checklist state.
func WorkflowKey(orderID string) string {
	return "workflow:" + orderID
}

// Snapshot captures the exact value (or absence) of a set of keys at one
// point in time. Restoring writes values back verbatim and removes keys that
// were absent when the snapshot was taken.
type Snapshot struct {
	entries map[string]snapshotEntry
}

type snapshotEntry struct {
	value   interface{}
	present bool
}

// Store is the read/write surface over cached views. The mutation gateway is
// the only writer during a mutation; UI readers and the poller go through
// Read. Injected so tests can substitute a double.
type Store interface {
	Read(key string) (interface{}, bool)
	Write(key string, value interface{})
	Delete(key string)
	Snapshot(keys ...string) Snapshot
	Restore(snap Snapshot)
	// MarkStale flags keys for background revalidation after a committed
	// mutation; the next refresh reconciles them with server truth.
	MarkStale(keys ...string)
	IsStale(key string) bool
	ClearStale(key string)
}

// MemoryStore is the in-memory Store used by the live client.
type MemoryStore struct {
	mu    sync.RWMutex
	views map[string]interface{}
	stale map[string]struct{}
}

// NewMemoryStore creates an empty view store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		views: make(map[string]interface{}),
		stale: make(map[string]struct{}),
	}
}

func (s *MemoryStore) Read(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[key]
	return v, ok
}

func (s *MemoryStore) Write(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[key] = value
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, key)
	delete(s.stale, key)
}

func (s *MemoryStore) Snapshot(keys ...string) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{entries: make(map[string]snapshotEntry, len(keys))}
	for _, key := range keys {
		v, ok := s.views[key]
		snap.entries[key] = snapshotEntry{value: v, present: ok}
	}
	return snap
}

func (s *MemoryStore) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range snap.entries {
		if entry.present {
			s.views[key] = entry.value
		} else {
			delete(s.views, key)
		}
	}
}

func (s *MemoryStore) MarkStale(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		s.stale[key] = struct{}{}
	}
}

func (s *MemoryStore) IsStale(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.stale[key]
	return ok
}

func (s *MemoryStore) ClearStale(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stale, key)
}
