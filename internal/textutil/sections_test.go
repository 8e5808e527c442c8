package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSections_MarkdownHeaders(t *testing.T) {
	text := "# Intro\nhello there\n\n## Details\nmore text here\n\n### Notes\nfinal bit\n"
	sections := ExtractSections(text, 20)
	assert.Len(t, sections, 3)
	assert.Equal(t, "Intro", sections[0].Title)
	assert.Equal(t, "Details", sections[1].Title)
	assert.Equal(t, "Notes", sections[2].Title)
	assert.Contains(t, sections[0].Content, "hello there")
}

func TestExtractSections_UnderlineHeaders(t *testing.T) {
	text := "Intro\n-----\nbody one\n\nDetails\n-------\nbody two\n\nNotes\n-----\nbody three\n"
	sections := ExtractSections(text, 20)
	assert.Len(t, sections, 3)
	assert.Equal(t, "Intro", sections[0].Title)
}

func TestExtractSections_FallsBackToBlankRuns(t *testing.T) {
	text := "first block of prose without any headers at all.\n\n\nsecond block continues the discussion further.\n"
	sections := ExtractSections(text, 20)
	assert.GreaterOrEqual(t, len(sections), 2)
}

func TestExtractSections_FallsBackToEqualBlocks(t *testing.T) {
	text := strings.Repeat("word ", 500)
	sections := ExtractSections(text, 4)
	assert.LessOrEqual(t, len(sections), 4)
	assert.NotEmpty(t, sections)
}

func TestExtractSections_Empty(t *testing.T) {
	assert.Nil(t, ExtractSections("", 10))
}

func TestExtractSections_ClipsToMax(t *testing.T) {
	text := "# A\nx\n\n# B\nx\n\n# C\nx\n\n# D\nx\n"
	sections := ExtractSections(text, 2)
	assert.Len(t, sections, 2)
}
