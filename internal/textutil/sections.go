package textutil

import (
	"fmt"
	"strings"
)

type header struct {
	title      string
	start, end int // end = rune offset right after the header construct (including its newline)
}

// ExtractSections detects section titles over text, following spec.md
// §4.1: markdown-style (#) and underline headers first; if fewer than
// three are found, falls back to splitting on runs of >= 2 blank lines;
// if that still yields fewer than two regions, the text is divided into
// equal-sized blocks. Sections are clipped to maxSections.
func ExtractSections(text string, maxSections int) []Section {
	if maxSections <= 0 {
		maxSections = 20
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	headers := detectHeaders(runes)
	if len(headers) >= 3 {
		return clipSections(sectionsFromHeaders(runes, headers), maxSections)
	}

	if blocks := splitOnBlankRuns(runes); len(blocks) >= 2 {
		return clipSections(sectionsFromBlocks(runes, blocks), maxSections)
	}

	return clipSections(sectionsFromEqualBlocks(runes, maxSections), maxSections)
}

func detectHeaders(text []rune) []header {
	lines := splitLines(text)
	var headers []header

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		raw := string(text[line.start:line.end])
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		// Markdown-style "#".."######" heading.
		if strings.HasPrefix(trimmed, "#") {
			j := 0
			for j < len(trimmed) && trimmed[j] == '#' && j < 6 {
				j++
			}
			if j > 0 && j < len(trimmed) && trimmed[j] == ' ' {
				title := strings.TrimSpace(trimmed[j+1:])
				if title != "" {
					headers = append(headers, header{title: title, start: line.start, end: line.end + 1})
					continue
				}
			}
		}

		// Underline heading: a short title line followed by a run of
		// '='/'-' at least as long as the (trimmed) title.
		if i+1 < len(lines) {
			if _, ok := isUnderline(text, lines[i+1]); ok {
				underlineLen := lines[i+1].end - lines[i+1].start
				if len(trimmed) >= 1 && underlineLen >= len([]rune(trimmed)) {
					headers = append(headers, header{title: trimmed, start: line.start, end: lines[i+1].end + 1})
					i++ // consume the underline line
					continue
				}
			}
		}
	}
	return headers
}

func sectionsFromHeaders(text []rune, headers []header) []Section {
	sections := make([]Section, 0, len(headers))
	for i, h := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1].start
		}
		content := strings.TrimSpace(string(text[h.end:min(end, len(text))]))
		sections = append(sections, Section{
			Title:   h.title,
			Content: content,
			Start:   h.start,
			End:     end,
		})
	}
	return sections
}

// splitOnBlankRuns splits text on runs of two or more consecutive blank
// lines, returning the non-blank spans between them.
func splitOnBlankRuns(text []rune) []Span {
	lines := splitLines(text)
	var spans []Span
	regionStart := -1
	blankRun := 0

	flush := func(end int) {
		if regionStart >= 0 && end > regionStart {
			content := strings.TrimSpace(string(text[regionStart:end]))
			if content != "" {
				spans = append(spans, Span{Content: content, Start: regionStart, End: end})
			}
		}
		regionStart = -1
	}

	for _, l := range lines {
		if isBlank(text, l) {
			blankRun++
			if blankRun == 2 {
				flush(l.start)
			}
			continue
		}
		if regionStart < 0 {
			regionStart = l.start
		}
		blankRun = 0
	}
	flush(len(text))
	return spans
}

func sectionsFromBlocks(text []rune, blocks []Span) []Section {
	sections := make([]Section, 0, len(blocks))
	for i, b := range blocks {
		title := firstLineTitle(b.Content, i)
		sections = append(sections, Section{Title: title, Content: b.Content, Start: b.Start, End: b.End})
	}
	return sections
}

func sectionsFromEqualBlocks(text []rune, maxSections int) []Section {
	n := len(text)
	if n == 0 {
		return nil
	}
	blockCount := maxSections
	if blockCount < 1 {
		blockCount = 1
	}
	if blockCount > 10 {
		blockCount = 10
	}
	blockSize := n / blockCount
	if blockSize < 1 {
		blockSize = n
		blockCount = 1
	}

	sections := make([]Section, 0, blockCount)
	for i := 0; i < blockCount; i++ {
		start := i * blockSize
		end := start + blockSize
		if i == blockCount-1 || end > n {
			end = n
		}
		if start >= end {
			continue
		}
		content := strings.TrimSpace(string(text[start:end]))
		sections = append(sections, Section{
			Title:   fmt.Sprintf("Section %d", i+1),
			Content: content,
			Start:   start,
			End:     end,
		})
	}
	return sections
}

func firstLineTitle(content string, index int) string {
	firstLine := content
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		firstLine = content[:idx]
	}
	firstLine = strings.TrimSpace(firstLine)
	if len(firstLine) > 0 && len(firstLine) <= 80 {
		return firstLine
	}
	return fmt.Sprintf("Section %d", index+1)
}

func clipSections(sections []Section, maxSections int) []Section {
	if len(sections) > maxSections {
		sections = sections[:maxSections]
	}
	return sections
}
