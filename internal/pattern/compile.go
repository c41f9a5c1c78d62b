// SPDX-License-Identifier: Apache-2.0

package pattern

import (
	"log/slog"
	"strings"

	"github.com/lexforge/lexforge/internal/lexicon"
)

// Option configures Compile's optional diagnostics.
type Option func(*compileState)

// WithDiagnostics enables slog.Debug tracing of dropped fragments.
// Dropped fragments are never reported to the warning sink: this is
// purely a development aid.
func WithDiagnostics(logger *slog.Logger) Option {
	return func(s *compileState) {
		s.logger = logger
	}
}

type compileState struct {
	logger *slog.Logger
}

func (s *compileState) debugf(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// Compile parses a single-line pattern source string into a token
// program. Tokenization is by whitespace; compilation never fails:
// ill-formed elements are silently dropped.
func Compile(source string, opts ...Option) Program {
	state := &compileState{}
	for _, opt := range opts {
		opt(state)
	}

	fields := strings.Fields(source)
	program := make(Program, 0, len(fields))
	for _, field := range fields {
		if tok, ok := compileElement(field, state); ok {
			program = append(program, tok)
		}
	}
	return program
}

// compileElement compiles one whitespace-separated pattern element.
func compileElement(element string, state *compileState) (Token, bool) {
	greedy := false
	if strings.HasSuffix(element, "+") && len(element) > 1 {
		element = element[:len(element)-1]
		greedy = true
	}

	tok, ok := compileBase(element, state)
	if !ok {
		return Token{}, false
	}
	if greedy {
		inner := tok
		tok = Token{Kind: KindGreedy, Inner: &inner}
	}
	return tok, true
}

// compileBase compiles an element after any trailing "+" has been
// stripped, handling wildcard, POS-class, optional, and literal forms.
func compileBase(element string, state *compileState) (Token, bool) {
	switch {
	case element == "*":
		return Token{Kind: KindWildcard}, true

	case strings.HasPrefix(element, "<") && strings.HasSuffix(element, ">") && len(element) >= 2:
		return compileTypeMatch(element[1:len(element)-1], state)

	case strings.HasPrefix(element, "[") && strings.HasSuffix(element, "]") && len(element) >= 2:
		return compileOptional(element[1:len(element)-1], state)

	default:
		return Token{Kind: KindLiteral, Literal: element}, true
	}
}

// compileTypeMatch parses the pipe-separated interior of a "<...>" element
// into a TypeMatch token. Unknown POS segments are discarded; if none
// remain, the whole token is dropped.
func compileTypeMatch(interior string, state *compileState) (Token, bool) {
	segments := strings.Split(interior, "|")
	set := lexicon.Set{}
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		p, err := lexicon.ParsePOS(seg)
		if err != nil {
			state.debugf("pattern: dropping unknown POS segment", "segment", seg)
			continue
		}
		set[p] = struct{}{}
	}
	if len(set) == 0 {
		state.debugf("pattern: dropping empty type-match token", "interior", interior)
		return Token{}, false
	}
	return Token{Kind: KindTypeMatch, Types: set}, true
}

// compileOptional recursively compiles the interior of a "[...]" element
// and wraps its first resulting token in Optional, discarding any rest.
func compileOptional(interior string, state *compileState) (Token, bool) {
	inner := Compile(interior, withState(state))
	if len(inner) == 0 {
		state.debugf("pattern: dropping empty optional token", "interior", interior)
		return Token{}, false
	}
	first := inner[0]
	return Token{Kind: KindOptional, Inner: &first}, true
}

// withState threads an existing compileState (and its diagnostics logger)
// into a nested Compile call.
func withState(state *compileState) Option {
	return func(s *compileState) { s.logger = state.logger }
}
