package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateSemanticChunks_SingleChunkWhenShort(t *testing.T) {
	text := "A short sentence that fits in one chunk easily."
	chunks := CreateSemanticChunks(text, 1000, 50, 0, 100)
	assert.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Content)
}

func TestCreateSemanticChunks_SplitsLongText(t *testing.T) {
	sentence := "This is one sentence in a much longer body of text. "
	text := strings.Repeat(sentence, 40)
	chunks := CreateSemanticChunks(text, 200, 40, 0, 100)
	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Content)), 250)
	}
}

func TestCreateSemanticChunks_ChunksAreOrderedAndOffsetsIncrease(t *testing.T) {
	sentence := "Sentence number here for chunking purposes today. "
	text := strings.Repeat(sentence, 30)
	chunks := CreateSemanticChunks(text, 150, 30, 0, 100)
	for i := 1; i < len(chunks); i++ {
		assert.GreaterOrEqual(t, chunks[i].Start, chunks[i-1].Start)
	}
}

func TestCreateSemanticChunks_RespectsBaseOffset(t *testing.T) {
	text := "Short text body."
	chunks := CreateSemanticChunks(text, 1000, 10, 500, 10)
	assert.Equal(t, 500, chunks[0].Start)
}

func TestCreateSemanticChunks_ClipsToMaxChunks(t *testing.T) {
	sentence := "Another sentence to pad out the body of this text sample. "
	text := strings.Repeat(sentence, 100)
	chunks := CreateSemanticChunks(text, 100, 20, 0, 3)
	assert.LessOrEqual(t, len(chunks), 3)
}

func TestCreateSemanticChunks_Empty(t *testing.T) {
	assert.Nil(t, CreateSemanticChunks("", 100, 10, 0, 10))
}
