package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeaningfulPreview_ShortTextUnchanged(t *testing.T) {
	text := "Just a short piece of text."
	assert.Equal(t, text, MeaningfulPreview(text, 100))
}

func TestMeaningfulPreview_TruncatesLongText(t *testing.T) {
	text := strings.Repeat("word ", 200)
	preview := MeaningfulPreview(text, 50)
	assert.LessOrEqual(t, len([]rune(preview)), 50)
}

func TestMeaningfulPreview_IncludesKeySentence(t *testing.T) {
	head := strings.Repeat("filler text goes here. ", 20)
	key := "This point is essentiel to understand the whole document."
	tail := strings.Repeat("more filler content follows. ", 20)
	text := head + key + " " + tail
	preview := MeaningfulPreview(text, 120)
	assert.Contains(t, preview, "essentiel")
}

func TestMeaningfulPreview_ZeroMaxLength(t *testing.T) {
	assert.Equal(t, "", MeaningfulPreview("anything", 0))
}
