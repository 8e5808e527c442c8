package textutil

import "strings"

// CreateSemanticChunks splits text into overlapping chunks of at most
// maxLength runes, breaking at sentence boundaries where possible and
// falling back to paragraph or hard breaks otherwise. Each chunk after
// the first overlaps the previous one by at least minOverlap runes of
// trailing context, carried by walking the start position back to the
// nearest sentence boundary inside the overlap window, which reaches at
// most maxLength/4 runes before the previous chunk's end. Offsets are
// translated by baseOffset. Results are clipped to maxChunks.
//
// Ported from original_source/doc_loader/src/splitter/text_analysis.py's
// _create_semantic_chunks, generalized to spec.md §4.1/§4.2's contract.
func CreateSemanticChunks(text string, maxLength, minOverlap, baseOffset, maxChunks int) []Span {
	if maxLength <= 0 {
		return nil
	}
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	if minOverlap < 0 {
		minOverlap = 0
	}
	if minOverlap >= maxLength {
		minOverlap = maxLength / 4
	}

	var spans []Span
	s := string(runes)
	start := 0

	for start < n && len(spans) < maxChunks {
		end := start + maxLength
		if end >= n {
			end = n
		} else {
			end = breakPoint(s, runes, start, end)
		}
		if end <= start {
			end = minInt(start+maxLength, n)
		}

		content := strings.TrimSpace(string(runes[start:end]))
		if content != "" {
			spans = append(spans, Span{
				Content: content,
				Start:   baseOffset + start,
				End:     baseOffset + end,
			})
		}

		if end >= n {
			break
		}

		next := end - minOverlap
		if next <= start {
			next = end
		}
		limit := end - maxLength/4
		if limit < start {
			limit = start
		}
		start = backToSentenceStart(s, runes, next, limit)
	}

	return spans
}

// breakPoint walks back from end looking for the nearest sentence
// boundary, then paragraph-adjacent newline, within the chunk's own
// window, so chunks don't split mid-sentence when avoidable.
func breakPoint(s string, runes []rune, start, end int) int {
	limit := start + (end-start)/2
	for i := end - 1; i > limit && i > start; i-- {
		if IsSentenceBoundary(s, i) {
			return i + 1
		}
	}
	for i := end - 1; i > limit && i > start; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	return end
}

// backToSentenceStart walks a proposed overlap start back to the start
// of the nearest preceding sentence, staying above limit, so overlap
// regions begin cleanly rather than mid-sentence; if none is found it
// returns next unchanged.
func backToSentenceStart(s string, runes []rune, next, limit int) int {
	for i := next; i > limit; i-- {
		if i == 0 {
			continue
		}
		if IsSentenceBoundary(s, i-1) {
			return i
		}
	}
	return next
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
