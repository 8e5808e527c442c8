package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSentenceBoundary(t *testing.T) {
	text := "Hello world. This is fine? Yes!"
	assert.True(t, IsSentenceBoundary(text, 11)) // '.'
	assert.True(t, IsSentenceBoundary(text, 25)) // '?'
	assert.True(t, IsSentenceBoundary(text, len(text)-1))
	assert.False(t, IsSentenceBoundary(text, 0))
	assert.False(t, IsSentenceBoundary(text, -1))
	assert.False(t, IsSentenceBoundary(text, len(text)))
}

func TestIsSentenceBoundary_AbbreviationNotFollowedBySpace(t *testing.T) {
	text := "a.b"
	assert.False(t, IsSentenceBoundary(text, 1))
}

func TestFindParagraphBoundaries(t *testing.T) {
	text := "first paragraph\n\nsecond paragraph\n \nthird paragraph"
	positions := FindParagraphBoundaries(text)
	assert.Len(t, positions, 2)
}

func TestFindParagraphBoundaries_NoSplit(t *testing.T) {
	text := "single paragraph with no blank line separators"
	assert.Empty(t, FindParagraphBoundaries(text))
}
