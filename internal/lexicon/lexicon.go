// SPDX-License-Identifier: Apache-2.0

package lexicon

import (
	"strings"
	"sync"
)

// Lexicon holds word entries plus two derived indexes, rebuilt whenever
// entries change. It follows the same multi-reader/single-writer
// discipline as the command registry it is modeled on: each Lookup (and
// so each HasPOS) takes RLock for that one call, writers take Lock,
// mutate entries, and rebuild the indexes before releasing.
type Lexicon struct {
	mu sync.RWMutex

	entries []Entry

	// formToLemma maps every form and every lemma (lowercased) to its
	// owning lemma.
	formToLemma map[string]string

	// lemmaToEntries maps each lemma (lowercased) to the entries sharing it.
	lemmaToEntries map[string][]Entry
}

// New returns an empty lexicon with rebuilt (empty) indexes.
func New() *Lexicon {
	l := &Lexicon{}
	l.rebuildIndexesLocked()
	return l
}

// Load replaces the entire entry set and rebuilds the derived indexes
// atomically. Callers loading from persistence should use this rather
// than repeated AddEntry calls.
func (l *Lexicon) Load(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Entry(nil), entries...)
	l.rebuildIndexesLocked()
}

// AddEntry appends a new word entry and rebuilds indexes before
// returning, so that no reader ever observes a half-rebuilt index.
func (l *Lexicon) AddEntry(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	l.rebuildIndexesLocked()
}

// RemoveLemma deletes every entry sharing the given lemma (case-
// insensitive) and rebuilds indexes. Returns the number of entries removed.
func (l *Lexicon) RemoveLemma(lemma string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := strings.ToLower(lemma)
	kept := l.entries[:0:0]
	removed := 0
	for _, e := range l.entries {
		if strings.ToLower(e.Lemma) == key {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
	l.rebuildIndexesLocked()
	return removed
}

// Entries returns a defensive copy of every registered entry.
func (l *Lexicon) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lookup returns every entry whose lemma or forms include word
// (case-insensitive). Multiple entries sharing differing POS are
// returned disjunctively; callers must OR over them.
func (l *Lexicon) Lookup(word string) ([]Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	lemma, ok := l.formToLemma[strings.ToLower(word)]
	if !ok {
		return nil, false
	}
	entries := l.lemmaToEntries[lemma]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, len(out) > 0
}

// HasPOS reports whether word resolves to at least one entry whose POS
// is in set. An absent word is treated as a Noun-classifiable unknown,
// i.e. HasPOS(word, set) is true iff set.Has(Noun) when the word is not
// in the lexicon.
func (l *Lexicon) HasPOS(word string, set Set) (matched bool, known bool) {
	entries, ok := l.Lookup(word)
	if !ok {
		return set.Has(Noun), false
	}
	for _, e := range entries {
		if set.Has(e.POS) {
			return true, true
		}
	}
	return false, true
}

// rebuildIndexesLocked recomputes formToLemma and lemmaToEntries from
// l.entries. Callers must hold l.mu for writing.
func (l *Lexicon) rebuildIndexesLocked() {
	formToLemma := make(map[string]string, len(l.entries)*2)
	lemmaToEntries := make(map[string][]Entry, len(l.entries))

	for _, e := range l.entries {
		key := strings.ToLower(e.Lemma)
		lemmaToEntries[key] = append(lemmaToEntries[key], e)
		for _, form := range e.surfaceForms() {
			formToLemma[strings.ToLower(form)] = key
		}
	}

	l.formToLemma = formToLemma
	l.lemmaToEntries = lemmaToEntries
}
