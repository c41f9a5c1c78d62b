// SPDX-License-Identifier: Apache-2.0

// Package query implements the resolution engine: unification,
// conjunctive goals, rule expansion with bidirectional matching, and
// phrase/2 combinatorial generation over a facts.Store.
package query

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/lexforge/lexforge/internal/facts"
	"github.com/samber/oops"
)

// Error codes surfaced by malformed query input.
const (
	CodeMalformedQuery        = "MALFORMED_QUERY"
	CodeUnknownPhrase         = "UNKNOWN_PHRASE"
	CodeMissingComponentFacts = "MISSING_COMPONENT_FACTS"
)

var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Arrow", Pattern: `-->`},
	{Name: "RuleOp", Pattern: `:-`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(),.]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// Term is a single predicate application: name(arg1, arg2, ...).
type Term struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"@Ident"`
	Args []string       `parser:"'(' (@Ident (',' @Ident)*)? ')'"`
}

// RuleDef is "head :- body1, body2, ...[.]".
type RuleDef struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Head *Term          `parser:"@@ ':-'"`
	Body []*Term        `parser:"@@ (',' @@)* '.'?"`
}

// PhraseDef is "name --> component1, component2, ...[.]".
type PhraseDef struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       string         `parser:"@Ident '-->'"`
	Components []string       `parser:"@Ident (',' @Ident)* '.'?"`
}

var (
	termParser      *participle.Parser[Term]
	ruleDefParser   *participle.Parser[RuleDef]
	phraseDefParser *participle.Parser[PhraseDef]
)

func init() {
	var err error
	termParser, err = participle.Build[Term](
		participle.Lexer(queryLexer),
		participle.UseLookahead(participle.MaxLookahead),
	)
	if err != nil {
		panic(err)
	}
	ruleDefParser, err = participle.Build[RuleDef](
		participle.Lexer(queryLexer),
		participle.UseLookahead(participle.MaxLookahead),
	)
	if err != nil {
		panic(err)
	}
	phraseDefParser, err = participle.Build[PhraseDef](
		participle.Lexer(queryLexer),
		participle.UseLookahead(participle.MaxLookahead),
	)
	if err != nil {
		panic(err)
	}
}

// ParseTerm parses a single "pred(args)" term, tolerating a trailing ".".
func ParseTerm(s string) (facts.Fact, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
	t, err := termParser.ParseString("", s)
	if err != nil {
		return facts.Fact{}, oops.Code(CodeMalformedQuery).Wrapf(err, "parsing term %q", s)
	}
	return facts.Fact{Predicate: t.Name, Args: t.Args}, nil
}

// ParseRuleDef parses "head :- body1, body2, ...".
func ParseRuleDef(s string) (Rule, error) {
	r, err := ruleDefParser.ParseString("", s)
	if err != nil {
		return Rule{}, oops.Code(CodeMalformedQuery).Wrapf(err, "parsing rule %q", s)
	}
	body := make([]facts.Fact, len(r.Body))
	for i, t := range r.Body {
		body[i] = facts.Fact{Predicate: t.Name, Args: t.Args}
	}
	return Rule{
		Head: facts.Fact{Predicate: r.Head.Name, Args: r.Head.Args},
		Body: body,
	}, nil
}

// ParsePhraseDef parses "name --> comp1, comp2, ...".
func ParsePhraseDef(s string) (Phrase, error) {
	p, err := phraseDefParser.ParseString("", s)
	if err != nil {
		return Phrase{}, oops.Code(CodeMalformedQuery).Wrapf(err, "parsing phrase definition %q", s)
	}
	return Phrase{Name: p.Name, Components: p.Components}, nil
}

// splitTopLevelGoals splits a conjunctive goal line on commas that are
// not nested inside a term's argument list.
func splitTopLevelGoals(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}
