// Package segment turns raw document text into a hierarchical stream of
// chunk records. It is the Go-channel counterpart of
// original_source/doc_loader/src/splitter/segmentation.py's generator
// pipeline: semantic_stream walks sections → paragraphs → fine-grained
// chunks; fallback_stream applies a plain sliding window when the
// semantic pass can't find structure to exploit.
package segment

import (
	"context"
	"strings"

	"github.com/WillIsback/clea-api/internal/apperr"
	"github.com/WillIsback/clea-api/internal/textutil"
)

// Constants per spec.md §4.2, normative over the Python original's
// smaller historical values.
const (
	MaxChunks                  = 5000
	MaxTextLength               = 20_000_000
	MaxChunkSize                = 8000
	MinLevel3Length              = 200
	MaxLevel3ChunksPerParagraph = 100
	LargeThresholdBytes          = 5_000_000

	maxSections   = 20
	maxParagraphs = 20
)

// ChunkRecord is one node of the hierarchical chunk tree as produced by
// the streaming segmenters. ParentIndex is -1 for the root, or the index
// (within the same stream) of the record's parent.
type ChunkRecord struct {
	Content        string
	StartChar      int
	EndChar        int
	HierarchyLevel int
	ParentIndex    int
}

// Segment picks the semantic path, falling back to the plain sliding
// window when the semantic pass yields at most the root chunk alone, per
// spec.md §4.2's Selection rule. It decides by peeking at most two
// records off the semantic producer rather than draining the whole
// bounded stream, so peak memory stays independent of document size.
func Segment(ctx context.Context, text string, maxLength int) (<-chan ChunkRecord, <-chan error) {
	if len(text) > MaxTextLength {
		return failStream(apperr.ErrInputTooLarge)
	}

	semOut, semErrc := SemanticStream(ctx, text, maxLength)

	var peeked []ChunkRecord
	for len(peeked) < 2 {
		r, ok := <-semOut
		if !ok {
			break
		}
		peeked = append(peeked, r)
	}

	if len(peeked) > 1 {
		return prependAndForward(ctx, peeked, semOut), semErrc
	}

	// semOut is closed whenever fewer than two records were peeked, so
	// semErrc has already been sent to (or closed empty) by this point.
	select {
	case err := <-semErrc:
		if err != nil {
			return failStream(err)
		}
	default:
	}

	return FallbackStream(ctx, text, maxLength)
}

// prependAndForward replays the buffered prefix then forwards whatever
// remains of rest, presenting callers with one continuous stream instead
// of two concatenated ones.
func prependAndForward(ctx context.Context, head []ChunkRecord, rest <-chan ChunkRecord) <-chan ChunkRecord {
	out := make(chan ChunkRecord)
	go func() {
		defer close(out)
		for _, r := range head {
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
		for r := range rest {
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// SemanticStream emits the full section/paragraph/chunk hierarchy.
func SemanticStream(ctx context.Context, text string, maxLength int) (<-chan ChunkRecord, <-chan error) {
	if len(text) > MaxTextLength {
		return failStream(apperr.ErrInputTooLarge)
	}
	out := make(chan ChunkRecord)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		err := runSemantic(ctx, text, maxLength, func(r ChunkRecord) bool {
			select {
			case out <- r:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil {
			errc <- err
		}
	}()
	return out, errc
}

// FallbackStream emits a root preview chunk plus a plain sliding window
// of level-3 chunks, per spec.md §4.2's fallback_stream.
func FallbackStream(ctx context.Context, text string, maxLength int) (<-chan ChunkRecord, <-chan error) {
	if len(text) > MaxTextLength {
		return failStream(apperr.ErrInputTooLarge)
	}
	out := make(chan ChunkRecord)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		err := runFallback(ctx, text, maxLength, func(r ChunkRecord) bool {
			select {
			case out <- r:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil {
			errc <- err
		}
	}()
	return out, errc
}

func failStream(err error) (<-chan ChunkRecord, <-chan error) {
	out := make(chan ChunkRecord)
	errc := make(chan error, 1)
	close(out)
	errc <- err
	close(errc)
	return out, errc
}

func runSemantic(ctx context.Context, text string, maxLength int, emit func(ChunkRecord) bool) error {
	if maxLength > MaxChunkSize {
		maxLength = MaxChunkSize
	}
	emitted := 0
	seenByParent := map[int]map[string]bool{}

	tryEmit := func(r ChunkRecord) (int, bool) {
		if emitted >= MaxChunks {
			return -1, false
		}
		seen := seenByParent[r.ParentIndex]
		if seen == nil {
			seen = map[string]bool{}
			seenByParent[r.ParentIndex] = seen
		}
		key := strings.TrimSpace(r.Content)
		if seen[key] {
			return -1, true
		}
		seen[key] = true
		if !emit(r) {
			return -1, false
		}
		idx := emitted
		emitted++
		return idx, true
	}

	preview := textutil.MeaningfulPreview(text, maxLength*2)
	rootIdx, ok := tryEmit(ChunkRecord{
		Content:        preview,
		StartChar:      0,
		EndChar:        len([]rune(text)),
		HierarchyLevel: 0,
		ParentIndex:    -1,
	})
	if !ok {
		return ctx.Err()
	}

	sections := textutil.ExtractSections(text, maxSections)
	for _, sec := range sections {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		secIdx, ok := tryEmit(ChunkRecord{
			Content:        sec.Content,
			StartChar:      sec.Start,
			EndChar:        sec.End,
			HierarchyLevel: 1,
			ParentIndex:    rootIdx,
		})
		if !ok {
			return ctx.Err()
		}
		if secIdx < 0 {
			continue
		}

		paragraphs := textutil.ExtractParagraphs(sec.Content, sec.Start, maxParagraphs)
		for _, para := range paragraphs {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			paraIdx, ok := tryEmit(ChunkRecord{
				Content:        para.Content,
				StartChar:      para.Start,
				EndChar:        para.End,
				HierarchyLevel: 2,
				ParentIndex:    secIdx,
			})
			if !ok {
				return ctx.Err()
			}
			if paraIdx < 0 || len([]rune(para.Content)) < MinLevel3Length {
				continue
			}

			overlap := maxLength / 10
			if overlap < 50 {
				overlap = 50
			}
			fine := textutil.CreateSemanticChunks(para.Content, maxLength, overlap, para.Start, MaxLevel3ChunksPerParagraph)
			for _, f := range fine {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				_, ok := tryEmit(ChunkRecord{
					Content:        f.Content,
					StartChar:      f.Start,
					EndChar:        f.End,
					HierarchyLevel: 3,
					ParentIndex:    paraIdx,
				})
				if !ok {
					return ctx.Err()
				}
			}
		}
	}
	return nil
}

func runFallback(ctx context.Context, text string, maxLength int, emit func(ChunkRecord) bool) error {
	preview := textutil.MeaningfulPreview(text, maxLength*2)
	if !emit(ChunkRecord{
		Content:        preview,
		StartChar:      0,
		EndChar:        len([]rune(text)),
		HierarchyLevel: 0,
		ParentIndex:    -1,
	}) {
		return ctx.Err()
	}

	target := maxLength * 2
	if target > MaxChunkSize {
		target = MaxChunkSize
	}
	overlap := target / 10

	chunks := textutil.CreateSemanticChunks(text, target, overlap, 0, MaxChunks-1)
	for _, c := range chunks {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !emit(ChunkRecord{
			Content:        c.Content,
			StartChar:      c.Start,
			EndChar:        c.End,
			HierarchyLevel: 3,
			ParentIndex:    0,
		}) {
			return ctx.Err()
		}
	}
	return nil
}
