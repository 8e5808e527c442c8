package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractParagraphs_BlankLineSplit(t *testing.T) {
	text := "This is the first paragraph with enough characters in it to survive the merging pass.\n\nThis is the second paragraph, also long enough to stand on its own merits in the merge pass."
	spans := ExtractParagraphs(text, 0, 10)
	assert.Len(t, spans, 2)
	assert.Contains(t, spans[0].Content, "first paragraph")
	assert.Contains(t, spans[1].Content, "second paragraph")
}

func TestExtractParagraphs_OffsetsAreAppliedFromBase(t *testing.T) {
	text := "Paragraph one has plenty of characters in it to not be merged away.\n\nParagraph two also has plenty of characters in it to survive."
	spans := ExtractParagraphs(text, 100, 10)
	assert.Equal(t, 100, spans[0].Start)
}

func TestExtractParagraphs_FallsBackToSentencesWithoutBlankLines(t *testing.T) {
	text := "First sentence is reasonably long on its own. Second sentence is also long enough to stand alone as a unit."
	spans := ExtractParagraphs(text, 0, 10)
	assert.NotEmpty(t, spans)
}

func TestExtractParagraphs_MergesShortFragments(t *testing.T) {
	text := "Hi.\n\nThis is a longer paragraph that should absorb the short fragment before it in the merge pass."
	spans := ExtractParagraphs(text, 0, 10)
	for _, s := range spans {
		assert.GreaterOrEqual(t, len([]rune(s.Content)), minCoherentFragment-20)
	}
}

func TestExtractParagraphs_ClipsToMax(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("A reasonably long paragraph goes right here to avoid merges happening.\n\n")
	}
	spans := ExtractParagraphs(b.String(), 0, 3)
	assert.LessOrEqual(t, len(spans), 3)
}

func TestExtractParagraphs_Empty(t *testing.T) {
	assert.Nil(t, ExtractParagraphs("", 0, 10))
}
