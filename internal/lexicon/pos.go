// SPDX-License-Identifier: Apache-2.0

// Package lexicon maps surface words to canonical lemmas and their
// part-of-speech entries. It is read-mostly: each lookup holds a read
// lock for that lookup only, and edits take a write lock and rebuild the
// derived indexes before releasing it. The lookups made while matching
// one sentence are not covered by a single lock, so an edit that lands
// between two of them is visible to the later ones.
package lexicon

import "github.com/samber/oops"

// POS is a part-of-speech tag. The set is closed and finite; every value
// round-trips through its stable string form.
type POS string

// The closed set of part-of-speech tags recognized by the lexicon and
// the pattern compiler.
const (
	Noun         POS = "Noun"
	Verb         POS = "Verb"
	Adjective    POS = "Adjective"
	Adverb       POS = "Adverb"
	Pronoun      POS = "Pronoun"
	Preposition  POS = "Preposition"
	Conjunction  POS = "Conjunction"
	Interjection POS = "Interjection"
	Determiner   POS = "Determiner"
)

// allPOS is the closed enumeration, declaration order defines no semantics.
var allPOS = []POS{Noun, Verb, Adjective, Adverb, Pronoun, Preposition, Conjunction, Interjection, Determiner}

// CodeUnknownPOS is the oops code of the error ParsePOS returns for any
// tag outside the closed set.
const CodeUnknownPOS = "UNKNOWN_POS"

// Valid reports whether p is one of the closed set of tags.
func (p POS) Valid() bool {
	for _, candidate := range allPOS {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePOS parses the exact, case-sensitive tag name (e.g. "Noun",
// "Verb"). Unknown segments are reported via
// an oops-coded error so callers (the pattern compiler) can choose to
// silently discard them.
func ParsePOS(s string) (POS, error) {
	p := POS(s)
	if !p.Valid() {
		return "", oops.Code(CodeUnknownPOS).With("tag", s).Errorf("unknown part of speech: %q", s)
	}
	return p, nil
}

// String implements fmt.Stringer.
func (p POS) String() string { return string(p) }

// MarshalText implements encoding.TextMarshaler for stable JSON output.
func (p POS) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *POS) UnmarshalText(data []byte) error {
	parsed, err := ParsePOS(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Set is an unordered collection of POS tags used by TypeMatch tokens.
type Set map[POS]struct{}

// NewSet builds a Set from the given tags, ignoring duplicates.
func NewSet(tags ...POS) Set {
	s := make(Set, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether p is a member of the set.
func (s Set) Has(p POS) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the set's members in the stable declaration order of
// the closed POS enumeration, used wherever a deterministic rendering
// of a set is required (e.g. canonical pattern re-rendering).
func (s Set) Sorted() []POS {
	out := make([]POS, 0, len(s))
	for _, p := range allPOS {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}
