// SPDX-License-Identifier: Apache-2.0

package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleFact(t *testing.T) {
	f, ok := Parse("animal(bear)")
	require.True(t, ok)
	assert.Equal(t, "animal", f.Predicate)
	assert.Equal(t, []string{"bear"}, f.Args)
}

func TestParse_TrailingDotTolerated(t *testing.T) {
	f, ok := Parse("animal(bear).")
	require.True(t, ok)
	assert.Equal(t, "animal", f.Predicate)
}

func TestParse_MultipleArgs(t *testing.T) {
	f, ok := Parse("likes(bear, honey)")
	require.True(t, ok)
	assert.Equal(t, []string{"bear", "honey"}, f.Args)
}

func TestParse_TopLevelCommaSplitOnly(t *testing.T) {
	f, ok := Parse("rel(f(a, b), c)")
	require.True(t, ok)
	assert.Equal(t, []string{"f(a, b)", "c"}, f.Args)
}

func TestParse_NoArgs(t *testing.T) {
	f, ok := Parse("true()")
	require.True(t, ok)
	assert.Equal(t, "true", f.Predicate)
	assert.Empty(t, f.Args)
}

func TestParse_Malformed(t *testing.T) {
	_, ok := Parse("not a fact")
	assert.False(t, ok)

	_, ok = Parse("unbalanced(a, b")
	assert.False(t, ok)
}

func TestIsVariable(t *testing.T) {
	assert.True(t, IsVariable("X"))
	assert.True(t, IsVariable("Animal"))
	assert.False(t, IsVariable("bear"))
	assert.False(t, IsVariable(""))
}

func TestNew_SkipsCommentsAndBlankLines(t *testing.T) {
	block := "// FROM: bear is an animal\nanimal(bear).\n\n// PATTERN: is-a (words 0-3)\nis_a(bear, animal).\n"
	s := New(block)
	assert.Equal(t, 2, s.Len())
}

func TestNew_SkipsUnparsableLines(t *testing.T) {
	block := "animal(bear).\nthis is garbage\nlikes(bear, honey).\n"
	s := New(block)
	assert.Equal(t, 2, s.Len())
}

func TestByPredicate_IndexesByPredicateSymbol(t *testing.T) {
	block := "animal(bear).\nanimal(cat).\nlikes(bear, honey).\n"
	s := New(block)

	animals := s.ByPredicate("animal")
	require.Len(t, animals, 2)
	assert.Equal(t, "bear", animals[0].Args[0])
	assert.Equal(t, "cat", animals[1].Args[0])

	assert.Empty(t, s.ByPredicate("nonexistent"))
}

func TestFact_String(t *testing.T) {
	f := Fact{Predicate: "likes", Args: []string{"bear", "honey"}}
	assert.Equal(t, "likes(bear, honey)", f.String())
}
