// SPDX-License-Identifier: Apache-2.0

package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit_EndOfInput(t *testing.T) {
	assert.Equal(t, []string{"bear is an animal"}, Split("Bear is an animal."))
}

func TestSplit_MultipleSentences(t *testing.T) {
	got := Split("Bear is an animal. Cat is an animal.")
	assert.Equal(t, []string{"bear is an animal", "cat is an animal"}, got)
}

func TestSplit_NewlineBoundary(t *testing.T) {
	got := Split("Bear is an animal.\nCat is an animal.")
	assert.Equal(t, []string{"bear is an animal", "cat is an animal"}, got)
}

func TestSplit_CarriageReturnBoundary(t *testing.T) {
	got := Split("Bear is an animal.\r\nCat likes pizza.")
	assert.Equal(t, []string{"bear is an animal", "cat likes pizza"}, got)
}

func TestSplit_DecimalDotIsNotABoundary(t *testing.T) {
	got := Split("The price is 3.14 dollars.")
	assert.Equal(t, []string{"the price is 3.14 dollars"}, got)
}

func TestSplit_PeriodFollowedByLowercaseIsNotABoundary(t *testing.T) {
	got := Split("Dr. smith is here.")
	assert.Equal(t, []string{"dr. smith is here"}, got)
}

func TestSplit_SkipsInterveningWhitespaceBeforeUppercase(t *testing.T) {
	got := Split("Bear is an animal.   Cat is an animal.")
	assert.Equal(t, []string{"bear is an animal", "cat is an animal"}, got)
}

func TestSplit_TrailingTailWithoutTerminalPeriod(t *testing.T) {
	got := Split("Bear is an animal. And a tail with no period")
	assert.Equal(t, []string{"bear is an animal", "and a tail with no period"}, got)
}

func TestSplit_EmptyInput(t *testing.T) {
	assert.Empty(t, Split(""))
	assert.Empty(t, Split("   "))
}

func TestSplit_PreservesOtherPunctuation(t *testing.T) {
	got := Split("Bear, is an animal!")
	assert.Equal(t, []string{"bear, is an animal!"}, got)
}
