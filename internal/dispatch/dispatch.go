// SPDX-License-Identifier: Apache-2.0

// Package dispatch drives each sentence through pattern matching,
// consulting the lexicon and pattern matcher, and emits fact lines plus
// interactive match records.
package dispatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lexforge/lexforge/internal/lexicon"
	"github.com/lexforge/lexforge/internal/matcher"
	"github.com/lexforge/lexforge/internal/pattern"
	"github.com/lexforge/lexforge/internal/store"
	"github.com/lexforge/lexforge/internal/warnings"
)

// conjunctions is the closed set of tokens that mark a sentence as
// containing a conjunction for the purposes of conjunction detection.
var conjunctions = map[string]struct{}{
	"and": {}, "or": {}, "nor": {}, "but": {}, "yet": {}, ",": {},
}

func isConjunction(word string) bool {
	_, ok := conjunctions[strings.ToLower(word)]
	return ok
}

// Record is an interactive match record: the UX-facing byproduct of a
// single successful pattern match. The dispatcher owns it but never
// interprets its fields beyond producing them.
type Record struct {
	SourceWords  []string
	PatternName  string
	Template     string
	Captures     []string
	CaptureSpans []matcher.Span
	Rendered     string
	Unknown      []string
}

// Result is the output of dispatching one sentence: the parse-output
// text block (comments + fact lines) and the interactive match records
// that produced it.
type Result struct {
	Lines   []string
	Records []Record
}

// compiled pairs a pattern store entry with its compiled program, so the
// program is compiled once per Dispatch call rather than once per
// candidate attempt.
type compiled struct {
	entry   store.PatternEntry
	program pattern.Program
}

// Dispatch runs one sentence (already segmented and lowercased) through
// the patterns in priority order, consulting lex, and returns the
// resulting fact lines and match records. Patterns with no matches
// anywhere produce the "no pattern matched" warning fact.
func Dispatch(sentence string, patterns []store.PatternEntry, lex *lexicon.Lexicon, sink *warnings.Sink) Result {
	words := tokenize(sentence)
	compiledPatterns := compileAll(patterns)

	var records []Record
	if hasConjunction(words) {
		if r, ok := conjunctionPath(words, compiledPatterns, lex); ok {
			records = r
		}
	}
	if records == nil && !hasConjunction(words) {
		records = multiMatch(words, compiledPatterns, lex)
	}
	if len(records) == 0 {
		if r, ok := singlePatternFallback(words, compiledPatterns, lex); ok {
			records = r
		}
	}

	result := Result{Lines: []string{fmt.Sprintf("// FROM: %s", sentence)}}
	if len(records) == 0 {
		result.Lines = append(result.Lines, "// WARNING: No pattern matched")
		result.Lines = append(result.Lines, fmt.Sprintf("prolog_fact('%s')", escapeQuotes(sentence)))
		if sink != nil {
			sink.Emit(warnings.CategoryUnparsedSentence, sentence)
		}
		return result
	}

	for _, rec := range records {
		result.Lines = append(result.Lines, rec.Rendered)
		result.Records = append(result.Records, rec)
		if sink != nil {
			for _, word := range rec.Unknown {
				sink.Emit(warnings.CategoryUnknownWord, word)
			}
		}
	}
	return result
}

func hasConjunction(words []string) bool {
	for _, w := range words {
		if isConjunction(w) {
			return true
		}
	}
	return false
}

// tokenize splits a sentence on whitespace, stripping one trailing '.'.
func tokenize(sentence string) []string {
	sentence = strings.TrimSuffix(strings.TrimSpace(sentence), ".")
	return strings.Fields(sentence)
}

func compileAll(patterns []store.PatternEntry) []compiled {
	out := make([]compiled, len(patterns))
	for i, p := range patterns {
		out[i] = compiled{entry: p, program: pattern.Compile(p.Source)}
	}
	return out
}

// multiMatch implements the no-conjunction multi-match driver: greedily
// pick, at each step, the longest non-overlapping candidate span across
// every pattern and every unused start index, tie-broken by priority
// order then earliest start.
func multiMatch(words []string, patterns []compiled, lex *lexicon.Lexicon) []Record {
	used := make([]bool, len(words))
	var records []Record

	for {
		type candidate struct {
			patIdx  int
			start   int
			match   matcher.Match
			spans   []matcher.Span
			unknown []string
		}
		var best *candidate

		for patIdx, p := range patterns {
			for start := 0; start < len(words); start++ {
				if used[start] || isConjunction(words[start]) {
					continue
				}
				caps, spans, unknown, end, ok := matchAtSpans(words, start, p.program, lex)
				if !ok {
					continue
				}
				if overlapsUsed(used, start, end) {
					continue
				}
				span := end - start
				if best == nil || span > (best.match.End-best.match.Start) ||
					(span == (best.match.End-best.match.Start) && patIdx < best.patIdx) ||
					(span == (best.match.End-best.match.Start) && patIdx == best.patIdx && start < best.start) {
					best = &candidate{
						patIdx:  patIdx,
						start:   start,
						match:   matcher.Match{Captures: caps, Start: start, End: end},
						spans:   spans,
						unknown: unknown,
					}
				}
			}
		}

		if best == nil {
			break
		}
		for i := best.match.Start; i < best.match.End; i++ {
			used[i] = true
		}
		p := patterns[best.patIdx]
		records = append(records, buildRecord(words, p, best.match.Start, best.match.End, best.match.Captures, best.spans, best.unknown))
	}

	return records
}

// matchAtSpans adapts matcher.MatchAtSpans to the (captures, spans,
// unknown, end, ok) shape multiMatch works with.
func matchAtSpans(words []string, start int, prog pattern.Program, lex *lexicon.Lexicon) (captures []string, spans []matcher.Span, unknown []string, end int, ok bool) {
	m, sp, matched := matcher.MatchAtSpans(words, start, prog, lex)
	if !matched {
		return nil, nil, nil, 0, false
	}
	return m.Captures, sp, m.Unknown, m.End, true
}

func overlapsUsed(used []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if used[i] {
			return true
		}
	}
	return false
}

// subjectEnd returns the index just past the first noun-classifiable
// word (unknowns count, per the matcher's TypeMatch rule), or -1 if none.
func subjectEnd(words []string, lex *lexicon.Lexicon) int {
	nounSet := lexicon.NewSet(lexicon.Noun)
	for i, w := range words {
		if matched, _ := lex.HasPOS(w, nounSet); matched {
			return i + 1
		}
	}
	return -1
}

// conjunctionPath tries each conjunction position (left
// to right), try subject-sharing expansion then suffix-split expansion;
// the first pattern+split combination that matches both halves wins.
func conjunctionPath(words []string, patterns []compiled, lex *lexicon.Lexicon) ([]Record, bool) {
	for c, w := range words {
		if !isConjunction(w) {
			continue
		}

		if recs, ok := trySubjectSharing(words, c, patterns, lex); ok {
			return recs, true
		}
		if recs, ok := trySuffixSplit(words, c, patterns, lex); ok {
			return recs, true
		}
	}
	return nil, false
}

func trySubjectSharing(words []string, c int, patterns []compiled, lex *lexicon.Lexicon) ([]Record, bool) {
	se := subjectEnd(words, lex)
	if se <= 0 || se > c {
		return nil, false
	}

	first := words[:c]
	second := append(append([]string{}, words[:se]...), words[c+1:]...)

	for _, p := range patterns {
		firstCaps, firstSpans, firstUnknown, firstOK := matcher.MatchExactSpans(first, p.program, lex)
		if !firstOK {
			continue
		}
		secondCaps, secondSpans, secondUnknown, secondOK := matcher.MatchExactSpans(second, p.program, lex)
		if !secondOK {
			continue
		}
		return []Record{
			buildRecord(first, p, 0, len(first), firstCaps, firstSpans, firstUnknown),
			buildRecord(second, p, 0, len(second), secondCaps, secondSpans, secondUnknown),
		}, true
	}
	return nil, false
}

func trySuffixSplit(words []string, c int, patterns []compiled, lex *lexicon.Lexicon) ([]Record, bool) {
	first := words[:c]

	for split := c; split >= 0; split-- {
		second := append(append([]string{}, words[:split]...), words[c+1:]...)

		for _, p := range patterns {
			firstCaps, firstSpans, firstUnknown, firstOK := matcher.MatchExactSpans(first, p.program, lex)
			if !firstOK {
				continue
			}
			secondCaps, secondSpans, secondUnknown, secondOK := matcher.MatchExactSpans(second, p.program, lex)
			if !secondOK {
				continue
			}
			return []Record{
				buildRecord(first, p, 0, len(first), firstCaps, firstSpans, firstUnknown),
				buildRecord(second, p, 0, len(second), secondCaps, secondSpans, secondUnknown),
			}, true
		}
	}
	return nil, false
}

// singlePatternFallback tries match_exact then
// match_substring, in pattern priority order, against the full sentence.
func singlePatternFallback(words []string, patterns []compiled, lex *lexicon.Lexicon) ([]Record, bool) {
	for _, p := range patterns {
		if caps, spans, unknown, ok := matcher.MatchExactSpans(words, p.program, lex); ok {
			return []Record{buildRecord(words, p, 0, len(words), caps, spans, unknown)}, true
		}
	}
	for _, p := range patterns {
		if caps, spans, unknown, start, ok := matcher.MatchSubstringSpans(words, p.program, lex); ok {
			rec := buildRecord(words, p, start, len(words), caps, spans, unknown)
			rec.Rendered = fmt.Sprintf("// PATTERN: %s (words %d-%d) (substring match at word %d)\n%s",
				p.entry.Name, start, len(words), start, instantiate(p.entry.Template, caps))
			return []Record{rec}, true
		}
	}
	return nil, false
}

// buildRecord assembles a Record plus its rendered "// PATTERN: ..." +
// template-instantiated fact lines.
func buildRecord(words []string, p compiled, start, end int, captures []string, spans []matcher.Span, unknown []string) Record {
	header := fmt.Sprintf("// PATTERN: %s (words %d-%d)", p.entry.Name, start, end)
	body := instantiate(p.entry.Template, captures)
	rendered := header
	if body != "" {
		rendered += "\n" + body
	}
	return Record{
		SourceWords:  append([]string{}, words...),
		PatternName:  p.entry.Name,
		Template:     p.entry.Template,
		Captures:     captures,
		CaptureSpans: spans,
		Rendered:     rendered,
		Unknown:      unknown,
	}
}

var captureRef = regexp.MustCompile(`\$(\d+)`)

// instantiate replaces every "$N" in template with the Nth (1-based)
// capture, matching the longest numeric run so "$10" is distinguished
// from "$1" followed by a literal "0". Every non-empty line of the
// (possibly multi-line) template becomes one fact line in the output.
func instantiate(template string, captures []string) string {
	var lines []string
	for _, line := range strings.Split(template, "\n") {
		if line == "" {
			continue
		}
		rendered := captureRef.ReplaceAllStringFunc(line, func(m string) string {
			n, err := strconv.Atoi(m[1:])
			if err != nil || n < 1 || n > len(captures) {
				return m
			}
			return captures[n-1]
		})
		lines = append(lines, rendered)
	}
	return strings.Join(lines, "\n")
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
