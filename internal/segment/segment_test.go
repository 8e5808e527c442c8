package segment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/WillIsback/clea-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan ChunkRecord, errc <-chan error) ([]ChunkRecord, error) {
	t.Helper()
	var records []ChunkRecord
	for r := range ch {
		records = append(records, r)
	}
	var err error
	for e := range errc {
		if e != nil {
			err = e
		}
	}
	return records, err
}

func TestSegment_EmptyInputYieldsSingleRoot(t *testing.T) {
	ch, errc := Segment(context.Background(), "", 500)
	records, err := collect(t, ch, errc)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].HierarchyLevel)
	assert.Equal(t, -1, records[0].ParentIndex)
}

func TestSegment_InputTooLarge(t *testing.T) {
	_, errc := SemanticStream(context.Background(), strings.Repeat("a", MaxTextLength+1), 500)
	err := <-errc
	assert.True(t, errors.Is(err, apperr.ErrInputTooLarge))
}

func TestSegment_ParentsPrecedeChildrenAtLowerLevel(t *testing.T) {
	text := buildStructuredDocument()
	ch, errc := Segment(context.Background(), text, 300)
	records, err := collect(t, ch, errc)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for i, r := range records {
		if r.ParentIndex == -1 {
			continue
		}
		require.Less(t, r.ParentIndex, i)
		parent := records[r.ParentIndex]
		assert.Less(t, parent.HierarchyLevel, r.HierarchyLevel)
	}
}

func TestSegment_OffsetsAreMonotoneAndInBounds(t *testing.T) {
	text := buildStructuredDocument()
	ch, errc := Segment(context.Background(), text, 300)
	records, err := collect(t, ch, errc)
	require.NoError(t, err)

	runeLen := len([]rune(text))
	lastStart := map[int]int{}
	for _, r := range records {
		assert.GreaterOrEqual(t, r.StartChar, 0)
		assert.LessOrEqual(t, r.EndChar, runeLen)
		assert.Greater(t, r.EndChar, r.StartChar)
		if prev, ok := lastStart[r.HierarchyLevel]; ok {
			assert.GreaterOrEqual(t, r.StartChar, prev)
		}
		lastStart[r.HierarchyLevel] = r.StartChar
	}
}

func TestFallbackStream_ProducesRootAndWindowedChunks(t *testing.T) {
	sentence := "A sentence that keeps the fallback window busy for a while. "
	text := strings.Repeat(sentence, 80)
	ch, errc := FallbackStream(context.Background(), text, 200)
	records, err := collect(t, ch, errc)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, 0, records[0].HierarchyLevel)
	for _, r := range records[1:] {
		assert.Equal(t, 3, r.HierarchyLevel)
		assert.Equal(t, 0, r.ParentIndex)
	}
}

func TestSegment_ShortUnstructuredTextStartsWithRoot(t *testing.T) {
	text := "plain"
	ch, errc := Segment(context.Background(), text, 500)
	records, err := collect(t, ch, errc)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, 0, records[0].HierarchyLevel)
}

func TestSegment_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	text := buildStructuredDocument()
	ch, errc := SemanticStream(ctx, text, 300)
	for range ch {
	}
	err := <-errc
	assert.True(t, err == nil || errors.Is(err, context.Canceled))
}

func buildStructuredDocument() string {
	var b strings.Builder
	for i := 0; i < 4; i++ {
		b.WriteString("# Section Title\n\n")
		for j := 0; j < 3; j++ {
			b.WriteString(strings.Repeat("This paragraph has enough text in it to be interesting for chunking. ", 10))
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
