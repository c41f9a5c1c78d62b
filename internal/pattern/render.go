// SPDX-License-Identifier: Apache-2.0

package pattern

import "strings"

// Render re-renders a token program into a canonical pattern source
// string. For programs compiled from the stable subset of the grammar
// (literals, "<POS>", "*", "[<POS>]", "<POS>+"), Compile(Render(p)) is
// guaranteed to reproduce p; see the round-trip test for this invariant.
func Render(p Program) string {
	elements := make([]string, 0, len(p))
	for _, tok := range p {
		elements = append(elements, renderToken(tok))
	}
	return strings.Join(elements, " ")
}

func renderToken(t Token) string {
	switch t.Kind {
	case KindLiteral:
		return t.Literal
	case KindWildcard:
		return "*"
	case KindTypeMatch:
		return renderTypeMatch(t)
	case KindOptional:
		if t.Inner == nil {
			return "[]"
		}
		return "[" + renderToken(*t.Inner) + "]"
	case KindGreedy:
		if t.Inner == nil {
			return "+"
		}
		return renderToken(*t.Inner) + "+"
	default:
		return ""
	}
}

func renderTypeMatch(t Token) string {
	names := make([]string, 0, len(t.Types))
	for _, p := range t.Types.Sorted() {
		names = append(names, p.String())
	}
	return "<" + strings.Join(names, "|") + ">"
}
