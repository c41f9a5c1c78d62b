// SPDX-License-Identifier: Apache-2.0

// Package pattern compiles user-authored pattern source strings (e.g.
// "<Determiner> <Noun> is a <Noun>") into a token program that the
// matcher package executes by backtracking. Compilation never fails:
// malformed fragments are silently dropped.
package pattern

import "github.com/lexforge/lexforge/internal/lexicon"

// Kind identifies which of the five token arms a Token represents.
type Kind int

const (
	// KindLiteral matches a single case-insensitive exact word.
	KindLiteral Kind = iota
	// KindTypeMatch matches any word classified under one of a set of POS tags.
	KindTypeMatch
	// KindWildcard matches any single word; it is never captured.
	KindWildcard
	// KindOptional matches zero or one occurrence of its Inner token.
	KindOptional
	// KindGreedy matches one or more consecutive occurrences of its Inner token.
	KindGreedy
)

// Token is a single compiled pattern element, represented as a tagged
// variant with five arms. Inner tokens of Optional/Greedy are owned
// values, never references into a shared arena; compilation is a pure
// tree builder so no cycle is possible.
type Token struct {
	Kind    Kind
	Literal string      // valid when Kind == KindLiteral
	Types   lexicon.Set // valid when Kind == KindTypeMatch
	Inner   *Token      // valid when Kind == KindOptional or KindGreedy
}

// Program is an ordered sequence of compiled tokens.
type Program []Token
