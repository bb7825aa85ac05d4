// Package chunk turns a source file into a deterministic set of
// semantically bounded chunks, each tagged with a symbol name and an
// optional doc-comment summary.
package chunk

// Chunk is one syntactically meaningful span extracted from a source file.
type Chunk struct {
	// Language is the canonical lowercase language tag, e.g. "rust", "python", "tsx".
	Language string

	// Symbol is the declaration name, or empty if it could not be resolved.
	Symbol string

	// NodeKind is the grammar-level node kind the chunk was emitted for,
	// e.g. "function_item". Empty for fallback line-windowed chunks.
	NodeKind string

	// Content is the exact source text of the span, byte-faithful.
	Content string

	// StartLine and EndLine are zero-based inclusive line indices within
	// the original file.
	StartLine int
	EndLine   int

	// Summary is the cleaned doc-comment text, if one was found.
	Summary string
}

// HasSummary reports whether the chunk carries a non-empty doc-comment summary.
func (c Chunk) HasSummary() bool {
	return c.Summary != ""
}
