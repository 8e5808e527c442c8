package textutil

import "strings"

// lineSpan is a single line's half-open rune range, excluding its
// terminating newline.
type lineSpan struct {
	start, end int
}

// splitLines breaks text into line spans over rune offsets.
func splitLines(text []rune) []lineSpan {
	var lines []lineSpan
	start := 0
	for i, r := range text {
		if r == '\n' {
			lines = append(lines, lineSpan{start: start, end: i})
			start = i + 1
		}
	}
	lines = append(lines, lineSpan{start: start, end: len(text)})
	return lines
}

func isBlank(text []rune, s lineSpan) bool {
	return len(strings.TrimSpace(string(text[s.start:s.end]))) == 0
}

// isUnderline reports whether the line consists entirely of '=' or '-'
// repeated at least 3 times.
func isUnderline(text []rune, s lineSpan) (rune, bool) {
	if s.end-s.start < 3 {
		return 0, false
	}
	first := text[s.start]
	if first != '=' && first != '-' {
		return 0, false
	}
	for i := s.start; i < s.end; i++ {
		if text[i] != first {
			return 0, false
		}
	}
	return first, true
}
