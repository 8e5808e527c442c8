package textutil

import "strings"

const minCoherentFragment = 80

// ExtractParagraphs splits text into paragraphs, per spec.md §4.1:
// split on blank-line separators; if that yields fewer than two pieces,
// split on sentence boundaries instead; merge adjacent fragments shorter
// than 80 characters to improve coherence; offsets are translated by
// baseOffset. Results are clipped to maxParagraphs.
func ExtractParagraphs(text string, baseOffset, maxParagraphs int) []Span {
	if maxParagraphs <= 0 {
		maxParagraphs = 20
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	pieces := splitOnBlankLineSeparators(runes)
	if len(pieces) < 2 {
		pieces = splitOnSentences(runes)
	}

	pieces = mergeSmallFragments(runes, pieces, minCoherentFragment)

	if len(pieces) > maxParagraphs {
		pieces = mergeDownTo(runes, pieces, maxParagraphs)
	}

	spans := make([]Span, 0, len(pieces))
	for _, p := range pieces {
		content := strings.TrimSpace(string(runes[p.start:p.end]))
		if content == "" {
			continue
		}
		spans = append(spans, Span{
			Content: content,
			Start:   baseOffset + p.start,
			End:     baseOffset + p.end,
		})
	}
	return spans
}

// splitOnBlankLineSeparators splits on one-or-more blank lines (\n\s*\n).
func splitOnBlankLineSeparators(text []rune) []lineSpan {
	lines := splitLines(text)
	var pieces []lineSpan
	regionStart := -1

	flush := func(end int) {
		if regionStart >= 0 && end > regionStart {
			pieces = append(pieces, lineSpan{start: regionStart, end: end})
		}
		regionStart = -1
	}

	for _, l := range lines {
		if isBlank(text, l) {
			flush(l.start)
			continue
		}
		if regionStart < 0 {
			regionStart = l.start
		}
	}
	flush(len(text))
	return pieces
}

// splitOnSentences splits text at sentence boundaries (IsSentenceBoundary).
func splitOnSentences(text []rune) []lineSpan {
	var pieces []lineSpan
	start := 0
	s := string(text)
	for i := 0; i < len(text); i++ {
		if IsSentenceBoundary(s, i) {
			end := i + 1
			for end < len(text) && (text[end] == ' ' || text[end] == '\t' || text[end] == '\n') {
				end++
			}
			if end > start {
				pieces = append(pieces, lineSpan{start: start, end: end})
			}
			start = end
		}
	}
	if start < len(text) {
		pieces = append(pieces, lineSpan{start: start, end: len(text)})
	}
	if len(pieces) == 0 {
		pieces = append(pieces, lineSpan{start: 0, end: len(text)})
	}
	return pieces
}

// mergeSmallFragments merges each piece shorter than minLen into the
// piece before it; a short leading piece instead absorbs the piece that
// follows it.
func mergeSmallFragments(text []rune, pieces []lineSpan, minLen int) []lineSpan {
	if len(pieces) <= 1 {
		return pieces
	}
	merged := make([]lineSpan, 0, len(pieces))
	for _, p := range pieces {
		content := strings.TrimSpace(string(text[p.start:p.end]))
		if content == "" {
			continue
		}
		if len(merged) > 0 {
			last := merged[len(merged)-1]
			if (p.end-p.start) < minLen || (last.end-last.start) < minLen {
				merged[len(merged)-1] = lineSpan{start: last.start, end: p.end}
				continue
			}
		}
		merged = append(merged, p)
	}
	return merged
}

// mergeDownTo merges adjacent pieces until at most max remain, always
// merging the two shortest neighbors.
func mergeDownTo(text []rune, pieces []lineSpan, max int) []lineSpan {
	for len(pieces) > max {
		best := 0
		bestLen := pieces[0].end - pieces[0].start + pieces[1].end - pieces[1].start
		for i := 1; i < len(pieces)-1; i++ {
			l := pieces[i].end - pieces[i].start + pieces[i+1].end - pieces[i+1].start
			if l < bestLen {
				best = i
				bestLen = l
			}
		}
		merged := lineSpan{start: pieces[best].start, end: pieces[best+1].end}
		pieces = append(pieces[:best], append([]lineSpan{merged}, pieces[best+2:]...)...)
	}
	return pieces
}
