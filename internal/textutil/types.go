// Package textutil implements Cléa-API's pure text-analysis functions:
// section/paragraph/sentence boundary detection and semantic chunk
// creation, all operating on character (rune) offsets rather than bytes
// so that positions stay meaningful for non-ASCII source documents.
//
// Ported from original_source/doc_loader/src/splitter/text_analysis.py and
// text_utils.py, generalized to spec.md §4.1's contract.
package textutil

// Section is a detected structural region of a document: a title and the
// span of body text that follows it, up to the next section.
type Section struct {
	Title   string
	Content string
	Start   int
	End     int
}

// Span is a contiguous range of text with its character offsets.
type Span struct {
	Content string
	Start   int
	End     int
}
