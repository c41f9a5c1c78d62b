// SPDX-License-Identifier: Apache-2.0

package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lexforge/lexforge/internal/facts"
	"github.com/samber/oops"
)

// Rule is a user-defined Horn clause: head holds whenever every goal in
// body can be simultaneously satisfied.
type Rule struct {
	Head facts.Fact
	Body []facts.Fact
}

// Phrase is a named phrase/2 generator: an ordered list of unary
// predicate names, each contributing one argument position to every
// combination phrase/2 produces.
type Phrase struct {
	Name       string
	Components []string
}

// Engine resolves queries against a fact store plus whatever rules and
// phrases have been defined over the course of a session.
type Engine struct {
	store   *facts.Store
	rules   []Rule
	phrases map[string]Phrase
}

// NewEngine returns an Engine backed by store, with no rules or phrases
// defined yet.
func NewEngine(store *facts.Store) *Engine {
	return &Engine{store: store, phrases: make(map[string]Phrase)}
}

// DefineRule registers r, making it available to subsequent goal
// resolution. Later definitions with the same head predicate/arity add
// an alternative clause rather than replacing earlier ones.
func (e *Engine) DefineRule(r Rule) {
	e.rules = append(e.rules, r)
}

// DefinePhrase registers p, replacing any existing phrase of the same name.
func (e *Engine) DefinePhrase(p Phrase) {
	e.phrases[p.Name] = p
}

// ProcessLine classifies and handles one line of query input, per the
// textual routing rule: ":-" is a rule definition, "-->" is a phrase
// definition, a line ending in "." with no "?" is a fact assertion, and
// anything else is a goal. Rule/phrase definitions and fact assertions
// are applied silently and return "". Goals return their formatted
// result (possibly "true." or a binding list). Malformed input of any
// kind returns an inline "// Error in query '<line>': <reason>" line
// instead of aborting.
func (e *Engine) ProcessLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
		return ""
	}

	switch {
	case strings.Contains(trimmed, ":-"):
		r, err := ParseRuleDef(trimmed)
		if err != nil {
			return queryError(trimmed, err)
		}
		e.DefineRule(r)
		return ""

	case strings.Contains(trimmed, "-->"):
		p, err := ParsePhraseDef(trimmed)
		if err != nil {
			return queryError(trimmed, err)
		}
		e.DefinePhrase(p)
		return ""

	case strings.HasSuffix(trimmed, ".") && !strings.Contains(trimmed, "?"):
		f, err := ParseTerm(trimmed)
		if err != nil {
			return queryError(trimmed, err)
		}
		e.store.Assert(f)
		return ""

	default:
		out, err := e.solveLine(trimmed)
		if err != nil {
			return queryError(trimmed, err)
		}
		return out
	}
}

func queryError(line string, err error) string {
	return fmt.Sprintf("// Error in query '%s': %s", line, err)
}

// solveLine parses and resolves a single goal line, which is either a
// phrase/2 call, a comma-separated conjunction of goals, or one simple
// goal.
func (e *Engine) solveLine(line string) (string, error) {
	line = strings.TrimSuffix(strings.TrimSpace(line), "?")
	pieces := splitTopLevelGoals(strings.TrimSuffix(strings.TrimSpace(line), "."))
	if len(pieces) == 0 || (len(pieces) == 1 && pieces[0] == "") {
		return "", oops.Code(CodeMalformedQuery).Errorf("empty goal")
	}

	if len(pieces) == 1 {
		term, err := ParseTerm(pieces[0])
		if err != nil {
			return "", err
		}
		if term.Predicate == "phrase" && len(term.Args) == 2 && facts.IsVariable(term.Args[1]) {
			return e.solvePhraseGoal(term.Args[0], term.Args[1])
		}
		return e.formatResults(e.SolveSimple(term)), nil
	}

	goals := make([]facts.Fact, len(pieces))
	for i, piece := range pieces {
		term, err := ParseTerm(piece)
		if err != nil {
			return "", err
		}
		goals[i] = term
	}
	return e.formatResults(e.SolveConjunction(goals)), nil
}

func (e *Engine) solvePhraseGoal(name, variable string) (string, error) {
	combos, err := e.SolvePhrase(name)
	if err != nil {
		return "", err
	}
	if len(combos) == 0 {
		return "true.", nil
	}
	lines := make([]string, 0, len(combos))
	for _, combo := range combos {
		lines = append(lines, fmt.Sprintf("%s = [%s]", variable, strings.Join(combo, ", ")))
	}
	return strings.Join(dedupeStrings(lines), "\n"), nil
}

// unify attempts to bind goalArgs against factArgs positionally: a
// variable argument in goalArgs either establishes a new binding or, if
// already bound, must agree with factArgs at that position; a
// non-variable argument must match literally.
func unify(goalArgs, factArgs []string) (map[string]string, bool) {
	if len(goalArgs) != len(factArgs) {
		return nil, false
	}
	bindings := make(map[string]string)
	for i, g := range goalArgs {
		if facts.IsVariable(g) {
			if existing, ok := bindings[g]; ok {
				if existing != factArgs[i] {
					return nil, false
				}
				continue
			}
			bindings[g] = factArgs[i]
			continue
		}
		if g != factArgs[i] {
			return nil, false
		}
	}
	return bindings, true
}

// substitute replaces every variable argument of f that appears in
// bindings with its bound value, leaving unbound variables and atoms as-is.
func substitute(f facts.Fact, bindings map[string]string) facts.Fact {
	out := facts.Fact{Predicate: f.Predicate, Args: make([]string, len(f.Args))}
	for i, a := range f.Args {
		if facts.IsVariable(a) {
			if v, ok := bindings[a]; ok {
				out.Args[i] = v
				continue
			}
		}
		out.Args[i] = a
	}
	return out
}

// mergeBindings unions a and b, with b's bindings taking precedence over
// a's on a shared key. This overwrite (rather than conflict-reject) is
// deliberate: a rule head's self-binding (a query variable unified
// against a same-named head variable) initially maps that name to
// itself, and it's only the later, more specific binding produced by
// resolving a body goal against real facts that should win.
func mergeBindings(a, b map[string]string) map[string]string {
	merged := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		merged[k] = v
	}
	for k, v := range b {
		merged[k] = v
	}
	return merged
}

// SolveSimple resolves one goal against facts directly (forward
// matching), against every fact's argument positions (bidirectional
// matching, realizing predicate/argument symmetry such as
// animal(bear) ≡ bear(animal)), and against every matching rule head
// (expanding the rule body left to right, substituting bound variables
// before matching each body goal with the same forward + bidirectional
// scheme). Results are de-duplicated by their formatted string.
func (e *Engine) SolveSimple(goal facts.Fact) []map[string]string {
	var results []map[string]string
	seen := make(map[string]struct{})
	add := func(b map[string]string) {
		key := formatBindings(b)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		results = append(results, b)
	}

	for _, f := range e.store.ByPredicate(goal.Predicate) {
		if b, ok := unify(goal.Args, f.Args); ok {
			add(b)
		}
	}

	for _, f := range e.store.All() {
		for i, a := range f.Args {
			if a != goal.Predicate {
				continue
			}
			reversed := make([]string, 0, len(f.Args))
			reversed = append(reversed, f.Predicate)
			for j, arg := range f.Args {
				if j != i {
					reversed = append(reversed, arg)
				}
			}
			if b, ok := unify(goal.Args, reversed); ok {
				add(b)
			}
		}
	}

	for _, r := range e.rules {
		if r.Head.Predicate != goal.Predicate || len(r.Head.Args) != len(goal.Args) {
			continue
		}
		headBindings, ok := unify(goal.Args, r.Head.Args)
		if !ok {
			continue
		}
		bindingsSet := []map[string]string{headBindings}
		for _, bodyGoal := range r.Body {
			var next []map[string]string
			for _, bs := range bindingsSet {
				substituted := substitute(bodyGoal, bs)
				for _, sub := range e.solveBodyGoal(substituted) {
					next = append(next, mergeBindings(bs, sub))
				}
			}
			bindingsSet = next
		}
		for _, bs := range bindingsSet {
			add(bs)
		}
	}

	return results
}

// solveBodyGoal resolves one rule-body goal using forward + bidirectional
// matching only; rule bodies do not themselves trigger further rule
// expansion.
func (e *Engine) solveBodyGoal(goal facts.Fact) []map[string]string {
	var results []map[string]string
	for _, f := range e.store.ByPredicate(goal.Predicate) {
		if b, ok := unify(goal.Args, f.Args); ok {
			results = append(results, b)
		}
	}
	for _, f := range e.store.All() {
		for i, a := range f.Args {
			if a != goal.Predicate {
				continue
			}
			reversed := make([]string, 0, len(f.Args))
			reversed = append(reversed, f.Predicate)
			for j, arg := range f.Args {
				if j != i {
					reversed = append(reversed, arg)
				}
			}
			if b, ok := unify(goal.Args, reversed); ok {
				results = append(results, b)
			}
		}
	}
	return results
}

// SolveConjunction resolves a comma-separated list of goals left to
// right, carrying forward the cross-product of bindings that satisfy
// every goal seen so far. Only forward matching is applied to each
// goal; bidirectional matching and rule expansion are reserved for
// SolveSimple.
func (e *Engine) SolveConjunction(goals []facts.Fact) []map[string]string {
	bindingsSet := []map[string]string{{}}
	for _, g := range goals {
		var next []map[string]string
		for _, bs := range bindingsSet {
			substituted := substitute(g, bs)
			for _, f := range e.store.ByPredicate(substituted.Predicate) {
				if b, ok := unify(substituted.Args, f.Args); ok {
					next = append(next, mergeBindings(bs, b))
				}
			}
		}
		bindingsSet = next
	}

	seen := make(map[string]struct{})
	var results []map[string]string
	for _, bs := range bindingsSet {
		key := formatBindings(bs)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, bs)
	}
	return results
}

// SolvePhrase generates every combination of facts across a named
// phrase's components, in component order, reporting an error if the
// phrase is undefined or any component has no single-argument facts.
func (e *Engine) SolvePhrase(name string) ([][]string, error) {
	phrase, ok := e.phrases[name]
	if !ok {
		return nil, oops.Code(CodeUnknownPhrase).Errorf("pattern '%s' not defined", name)
	}

	combos := [][]string{{}}
	for _, component := range phrase.Components {
		candidates := e.store.ByPredicate(component)
		if len(candidates) == 0 {
			return nil, oops.Code(CodeMissingComponentFacts).Errorf("no facts found for component '%s'", component)
		}
		var values []string
		for _, f := range candidates {
			if len(f.Args) != 1 {
				continue
			}
			values = append(values, f.Args[0])
		}
		if len(values) == 0 {
			return nil, oops.Code(CodeMissingComponentFacts).Errorf("no facts found for component '%s'", component)
		}

		var next [][]string
		for _, combo := range combos {
			for _, v := range values {
				extended := append(append([]string{}, combo...), v)
				next = append(next, extended)
			}
		}
		combos = next
	}
	return combos, nil
}

// formatResults renders a binding-map set into the output convention: a
// bare "true." for a single success with no free variables, one
// "K = v, ..." line per distinct binding set when there are several,
// and "false." when the goal has no solutions at all.
func (e *Engine) formatResults(results []map[string]string) string {
	if len(results) == 0 {
		return "false."
	}
	lines := make([]string, 0, len(results))
	for _, bs := range results {
		lines = append(lines, formatBindings(bs))
	}
	return strings.Join(dedupeStrings(lines), "\n")
}

// formatBindings renders one binding set as "true." when empty, or a
// comma-separated, key-sorted "K = v" list otherwise.
func formatBindings(bindings map[string]string) string {
	if len(bindings) == 0 {
		return "true."
	}
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s = %s", k, bindings[k])
	}
	return strings.Join(parts, ", ")
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
