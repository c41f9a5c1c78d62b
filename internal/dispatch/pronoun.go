// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"strings"

	"github.com/lexforge/lexforge/internal/lexicon"
)

// pronounKind classifies a recognized pronoun for antecedent lookup.
type pronounKind int

const (
	pronounSingular pronounKind = iota
	pronounPlural
	pronounReflexive
	pronounPossessive
)

var pronounKinds = map[string]pronounKind{
	"he": pronounSingular, "she": pronounSingular, "it": pronounSingular, "him": pronounSingular,
	"they": pronounPlural, "them": pronounPlural,
	"himself": pronounReflexive, "herself": pronounReflexive, "itself": pronounReflexive, "themselves": pronounReflexive,
	"his": pronounPossessive, "her": pronounPossessive, "hers": pronounPossessive,
	"their": pronounPossessive, "theirs": pronounPossessive, "its": pronounPossessive,
}

var pluralExceptions = map[string]struct{}{
	"was": {}, "this": {}, "class": {}, "grass": {}, "glass": {}, "pass": {}, "mass": {},
	"boss": {}, "moss": {}, "loss": {}, "cross": {}, "toss": {}, "dress": {}, "stress": {},
	"guess": {}, "less": {}, "bless": {}, "chess": {}, "press": {}, "express": {},
	"process": {}, "success": {}, "access": {}, "address": {},
}

type entity struct {
	word       string
	plural     bool
	properNoun bool
}

// PronounResolver is a recency-based antecedent resolver for a small set
// of English pronouns. It is never called from the default Dispatch
// path; callers that want it invoke ResolveSentence themselves before
// passing the resolved words to Dispatch.
type PronounResolver struct {
	entities []entity
}

// NewPronounResolver returns a resolver with no tracked antecedents.
func NewPronounResolver() *PronounResolver {
	return &PronounResolver{}
}

// ResolveSentence walks words left to right, replacing recognized
// pronouns with their most recent matching antecedent (tracked across
// calls) and recording every noun-classifiable word as a candidate
// antecedent for subsequent sentences.
func (r *PronounResolver) ResolveSentence(words []string, lex *lexicon.Lexicon) []string {
	resolved := make([]string, len(words))
	var subject string

	for i, w := range words {
		lower := strings.ToLower(w)
		if kind, ok := pronounKinds[lower]; ok {
			if ant, ok := r.resolve(kind, subject); ok {
				resolved[i] = ant
				continue
			}
			resolved[i] = w
			continue
		}

		resolved[i] = w
		if matched, known := lex.HasPOS(w, lexicon.NewSet(lexicon.Noun)); matched {
			e := entity{word: w, plural: isPluralForm(lower), properNoun: !known}
			if subject == "" {
				subject = w
			}
			r.entities = append(r.entities, e)
		}
	}
	return resolved
}

func (r *PronounResolver) resolve(kind pronounKind, subject string) (string, bool) {
	switch kind {
	case pronounReflexive:
		if subject == "" {
			return "", false
		}
		return subject, true
	case pronounPlural:
		return r.mostRecent(true, false)
	case pronounPossessive:
		if w, ok := r.mostRecent(false, true); ok {
			return w, true
		}
		return r.mostRecent(true, false)
	default: // pronounSingular
		return r.mostRecent(false, true)
	}
}

// mostRecent scans entities newest-first for one whose number equals
// plural; when preferProper is set it first looks for a proper-noun
// match of that number before relaxing to any match of that number.
func (r *PronounResolver) mostRecent(plural bool, preferProper bool) (string, bool) {
	if preferProper {
		for i := len(r.entities) - 1; i >= 0; i-- {
			e := r.entities[i]
			if e.plural == plural && e.properNoun {
				return e.word, true
			}
		}
	}
	for i := len(r.entities) - 1; i >= 0; i-- {
		e := r.entities[i]
		if e.plural == plural {
			return e.word, true
		}
	}
	return "", false
}

func isPluralForm(lower string) bool {
	if _, exception := pluralExceptions[lower]; exception {
		return false
	}
	return strings.HasSuffix(lower, "ies") || strings.HasSuffix(lower, "es") || strings.HasSuffix(lower, "s")
}
