// SPDX-License-Identifier: Apache-2.0

// Package store owns the persistent pattern and word dictionary: the
// PatternEntry/PatternStore types referenced by dispatch, and the
// load/save encodings described in the dictionary file format.
package store

import (
	"sort"
	"sync"
)

// PatternEntry is a named, prioritized pattern source plus its
// instantiation template. Pattern entries are owned exclusively by the
// store; dispatch and interactive match records reference them by name
// only (weak reference: deleting a pattern does not invalidate match
// records already produced from it).
type PatternEntry struct {
	Name     string `json:"name"`
	Source   string `json:"pattern"`
	Template string `json:"template"`
	Priority int    `json:"priority"`
	Enabled  bool   `json:"enabled"`
}

// PatternStore holds the pattern list under the same multi-reader/
// single-writer discipline as lexicon.Lexicon: readers take RLock only
// to copy the list out (All and Enabled return copies, so a dispatch
// walks a snapshot), writers take Lock, mutate, and rebuild the cached
// ordering before releasing.
type PatternStore struct {
	mu       sync.RWMutex
	entries  []PatternEntry
	enabled  []PatternEntry // cached, priority-descending, declaration-order ties
}

// NewPatternStore returns an empty pattern store.
func NewPatternStore() *PatternStore {
	return &PatternStore{}
}

// Load replaces the entire pattern set and rebuilds the cached ordering.
func (s *PatternStore) Load(entries []PatternEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]PatternEntry(nil), entries...)
	s.rebuildLocked()
}

// Add appends a new pattern entry and rebuilds the cached ordering.
func (s *PatternStore) Add(e PatternEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	s.rebuildLocked()
}

// Remove deletes every entry with the given name. Returns the number removed.
func (s *PatternStore) Remove(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0:0]
	removed := 0
	for _, e := range s.entries {
		if e.Name == name {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	s.rebuildLocked()
	return removed
}

// All returns a defensive copy of every registered pattern, in declaration order.
func (s *PatternStore) All() []PatternEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PatternEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Enabled returns a defensive copy of the enabled patterns ordered by
// priority descending, ties broken by declaration order: the order
// the dispatcher must walk candidates in.
func (s *PatternStore) Enabled() []PatternEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PatternEntry, len(s.enabled))
	copy(out, s.enabled)
	return out
}

// rebuildLocked recomputes the cached enabled/priority-ordered view.
// Callers must hold s.mu for writing. Go's sort.SliceStable preserves
// declaration order among equal priorities.
func (s *PatternStore) rebuildLocked() {
	enabled := make([]PatternEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Enabled {
			enabled = append(enabled, e)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority > enabled[j].Priority
	})
	s.enabled = enabled
}
