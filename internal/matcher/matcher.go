// SPDX-License-Identifier: Apache-2.0

// Package matcher backtracks a compiled pattern.Program against a word
// sequence, producing indexed captures. The algorithm is a direct
// recursive walk over a cursor pair (word index, program index); it
// never raises; failure is simply reporting no match.
package matcher

import (
	"strings"

	"github.com/lexforge/lexforge/internal/lexicon"
	"github.com/lexforge/lexforge/internal/pattern"
)

// Match is the result of a successful match: the ordered capture list,
// the half-open span of word indexes consumed, and the words consumed
// by a TypeMatch (directly or inside a Greedy run) whose lexicon lookup
// missed and were therefore treated as Noun-classifiable unknowns.
type Match struct {
	Captures []string
	Start    int
	End      int
	Unknown  []string
}

// Span is the half-open [Start, End) range of word indexes a single
// capture was produced from, used by callers that need to map a capture
// back to the words that produced it (e.g. an interactive match record).
type Span struct {
	Start int
	End   int
}

// continuation is invoked once the program cursor is exhausted for a
// given branch; it returns true to accept that branch (stopping the
// search) or false to keep backtracking.
type continuation func(wordIdx int, captures []string, spans []Span, unknown []string) bool

// MatchAt attempts to match prog starting at word index start, returning
// the first successful completion in backtracking priority order
// (literal/type/wildcard have one branch each; Optional tries "taken"
// before "skipped"; Greedy tries the longest run before shorter ones).
// The returned End is wherever the program finished consuming, not
// necessarily len(words).
func MatchAt(words []string, start int, prog pattern.Program, lex *lexicon.Lexicon) (Match, bool) {
	result, _, ok := MatchAtSpans(words, start, prog, lex)
	return result, ok
}

// MatchAtSpans is MatchAt plus, for each capture, the span of word
// indexes (absolute, not relative to start) it was produced from.
func MatchAtSpans(words []string, start int, prog pattern.Program, lex *lexicon.Lexicon) (Match, []Span, bool) {
	var result Match
	var resultSpans []Span
	ok := try(words, start, prog, 0, lex, nil, nil, nil, func(wordIdx int, captures []string, spans []Span, unknown []string) bool {
		result = Match{Captures: captures, Start: start, End: wordIdx, Unknown: unknown}
		resultSpans = spans
		return true
	})
	return result, resultSpans, ok
}

// MatchExact succeeds only if prog consumes exactly len(words) words.
func MatchExact(words []string, prog pattern.Program, lex *lexicon.Lexicon) ([]string, bool) {
	caps, _, _, ok := MatchExactSpans(words, prog, lex)
	return caps, ok
}

// MatchExactSpans is MatchExact plus, for each capture, the half-open
// word-index span it was produced from, used to build interactive
// match records without re-deriving positions after the fact, and the
// list of matched words whose lexicon lookup missed (see Match.Unknown).
func MatchExactSpans(words []string, prog pattern.Program, lex *lexicon.Lexicon) ([]string, []Span, []string, bool) {
	var captures []string
	var spans []Span
	var unknown []string
	ok := try(words, 0, prog, 0, lex, nil, nil, nil, func(wordIdx int, caps []string, sp []Span, unk []string) bool {
		if wordIdx != len(words) {
			return false
		}
		captures = caps
		spans = sp
		unknown = unk
		return true
	})
	return captures, spans, unknown, ok
}

// MatchSubstring scans start indexes from 0 upward and returns the first
// one whose suffix admits an exact match.
func MatchSubstring(words []string, prog pattern.Program, lex *lexicon.Lexicon) (captures []string, start int, ok bool) {
	caps, _, _, s, matched := MatchSubstringSpans(words, prog, lex)
	return caps, s, matched
}

// MatchSubstringSpans is MatchSubstring plus, for each capture, its
// absolute (not suffix-relative) word-index span, and the list of
// matched words whose lexicon lookup missed (see Match.Unknown).
func MatchSubstringSpans(words []string, prog pattern.Program, lex *lexicon.Lexicon) (captures []string, spans []Span, unknown []string, start int, ok bool) {
	for s := 0; s <= len(words); s++ {
		if caps, sp, unk, matched := MatchExactSpans(words[s:], prog, lex); matched {
			offset := make([]Span, len(sp))
			for i, span := range sp {
				offset[i] = Span{Start: span.Start + s, End: span.End + s}
			}
			return caps, offset, unk, s, true
		}
	}
	return nil, nil, nil, 0, false
}

// try is the core backtracking recursion: attempt to match prog[progIdx:]
// starting at words[wordIdx:], accumulating captures and their spans,
// and invoke k once the program is exhausted.
func try(words []string, wordIdx int, prog pattern.Program, progIdx int, lex *lexicon.Lexicon, captures []string, spans []Span, unknown []string, k continuation) bool {
	if progIdx == len(prog) {
		return k(wordIdx, captures, spans, unknown)
	}

	tok := prog[progIdx]
	switch tok.Kind {
	case pattern.KindLiteral:
		if wordIdx >= len(words) || !strings.EqualFold(words[wordIdx], tok.Literal) {
			return false
		}
		return try(words, wordIdx+1, prog, progIdx+1, lex, captures, spans, unknown, k)

	case pattern.KindTypeMatch:
		if wordIdx >= len(words) {
			return false
		}
		matched, known := lex.HasPOS(words[wordIdx], tok.Types)
		if !matched {
			return false
		}
		newUnknown := unknown
		if !known {
			newUnknown = appendCopy(unknown, words[wordIdx])
		}
		return try(words, wordIdx+1, prog, progIdx+1, lex,
			appendCopy(captures, words[wordIdx]),
			appendSpanCopy(spans, Span{wordIdx, wordIdx + 1}), newUnknown, k)

	case pattern.KindWildcard:
		if wordIdx >= len(words) {
			return false
		}
		return try(words, wordIdx+1, prog, progIdx+1, lex, captures, spans, unknown, k)

	case pattern.KindOptional:
		return tryOptional(words, wordIdx, tok, prog, progIdx, lex, captures, spans, unknown, k)

	case pattern.KindGreedy:
		return tryGreedy(words, wordIdx, tok, prog, progIdx, lex, captures, spans, unknown, k)

	default:
		return false
	}
}

// tryOptional tries the "taken" branch (consume if the inner token
// matches, capturing iff inner is a TypeMatch) before the "skipped"
// branch (advance only the pattern cursor).
func tryOptional(words []string, wordIdx int, tok pattern.Token, prog pattern.Program, progIdx int, lex *lexicon.Lexicon, captures []string, spans []Span, unknown []string, k continuation) bool {
	if tok.Inner != nil {
		captureInner := tok.Inner.Kind == pattern.KindTypeMatch
		taken := tryToken(words, wordIdx, *tok.Inner, lex, captures, spans, unknown, func(newWordIdx int, newCaptures []string, newSpans []Span, newUnknown []string) bool {
			if !captureInner {
				newCaptures, newSpans = captures, spans
			}
			return try(words, newWordIdx, prog, progIdx+1, lex, newCaptures, newSpans, newUnknown, k)
		})
		if taken {
			return true
		}
	}
	return try(words, wordIdx, prog, progIdx+1, lex, captures, spans, unknown, k)
}

// tryGreedy greedily determines the maximal run of words matching inner,
// then tries run lengths from that maximum down to 1, capturing the
// matched span joined with "_" and lowercased. It fails iff zero words
// matched.
func tryGreedy(words []string, wordIdx int, tok pattern.Token, prog pattern.Program, progIdx int, lex *lexicon.Lexicon, captures []string, spans []Span, unknown []string, k continuation) bool {
	if tok.Inner == nil {
		return false
	}

	// stepUnknown[i] holds whatever unknown words the (i+1)th occurrence
	// of inner contributed on its own, so a committed run of length
	// "run" can fold in exactly the first "run" steps' contributions.
	var stepUnknown [][]string
	idx := wordIdx
	for {
		next, stepUnk, ok := greedyStepOnce(words, idx, *tok.Inner, lex)
		if !ok {
			break
		}
		stepUnknown = append(stepUnknown, stepUnk)
		idx = next
	}
	maxRun := idx - wordIdx
	if maxRun == 0 {
		return false
	}

	for run := maxRun; run >= 1; run-- {
		end := wordIdx + run
		joined := strings.ToLower(strings.Join(words[wordIdx:end], "_"))
		runUnknown := unknown
		for _, stepUnk := range stepUnknown[:run] {
			runUnknown = appendAllCopy(runUnknown, stepUnk)
		}
		if try(words, end, prog, progIdx+1, lex,
			appendCopy(captures, joined),
			appendSpanCopy(spans, Span{wordIdx, end}), runUnknown, k) {
			return true
		}
	}
	return false
}

// greedyStepOnce attempts a single occurrence of inner at idx, returning
// the next word index and any unknown words that occurrence contributed
// on success. It takes the first successful expansion of inner,
// consistent with the rest of the matcher's backtracking priority order.
func greedyStepOnce(words []string, idx int, inner pattern.Token, lex *lexicon.Lexicon) (int, []string, bool) {
	next := -1
	var unknown []string
	tryToken(words, idx, inner, lex, nil, nil, nil, func(newWordIdx int, _ []string, _ []Span, unk []string) bool {
		next = newWordIdx
		unknown = unk
		return true
	})
	if next == -1 {
		return 0, nil, false
	}
	return next, unknown, true
}

// tryToken matches a single token in isolation by treating it as a
// length-one program, so Optional and Greedy can recurse into arbitrary
// inner tokens without duplicating the dispatch switch.
func tryToken(words []string, wordIdx int, tok pattern.Token, lex *lexicon.Lexicon, captures []string, spans []Span, unknown []string, cont continuation) bool {
	return try(words, wordIdx, pattern.Program{tok}, 0, lex, captures, spans, unknown, cont)
}

// appendCopy returns a new slice with v appended, never mutating base's
// backing array: backtracking branches share a captures prefix and
// must not corrupt each other.
func appendCopy(base []string, v string) []string {
	out := make([]string, len(base)+1)
	copy(out, base)
	out[len(base)] = v
	return out
}

// appendSpanCopy is appendCopy's counterpart for the parallel span list.
func appendSpanCopy(base []Span, v Span) []Span {
	out := make([]Span, len(base)+1)
	copy(out, base)
	out[len(base)] = v
	return out
}

// appendAllCopy returns a new slice with vs appended after base, never
// mutating base's backing array.
func appendAllCopy(base []string, vs []string) []string {
	out := make([]string, len(base)+len(vs))
	copy(out, base)
	copy(out[len(base):], vs)
	return out
}
