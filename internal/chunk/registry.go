package chunk

import sitter "github.com/tree-sitter/go-tree-sitter"

// descriptor is a static, per-language record of the node kinds and rules
// the chunker needs. It is a record-of-functions rather than a dynamic
// dispatch table: every language is a plain data value registered once at
// package init.
type descriptor struct {
	// name is the canonical lowercase language tag.
	name string

	// language constructs the tree-sitter grammar. Called once per ParseFile.
	language func() *sitter.Language

	// interestingKinds are node kinds that become chunks. Matched nodes are
	// not descended into.
	interestingKinds map[string]bool

	// pruneKinds are node kinds whose subtree is never traversed, even
	// though the kind itself is not interesting. This blocks grammars that
	// reuse a kind across structurally different contexts.
	pruneKinds map[string]bool

	// summaryEligibleKinds are the interesting kinds that attempt doc
	// comment extraction (functions, classes, methods, traits, ...).
	summaryEligibleKinds map[string]bool

	// skippableForSummaryKinds are sibling kinds skipped while walking
	// backwards looking for a doc comment (e.g. a lone type signature
	// sitting between a doc comment and its declaration).
	skippableForSummaryKinds map[string]bool

	// commentKinds are the node kinds the grammar uses for comments.
	commentKinds map[string]bool

	// groupWrapperKinds are wrapper node kinds whose first child should
	// inherit a doc comment attached to the wrapper itself when no
	// sibling-collected comment was found on the child directly.
	groupWrapperKinds map[string]bool

	// isDocComment decides whether a single comment node's raw (trimmed)
	// text marks it as documentation rather than a plain comment.
	isDocComment func(trimmedRaw string) bool

	// stripComments cleans a list of raw, source-order comment node texts
	// into the final summary string.
	stripComments func(rawTexts []string) string

	// symbolPriority is the ordered list of child node kinds scanned for a
	// declaration's name.
	symbolPriority []string

	// pythonDocstring marks languages (only Python) that extract summaries
	// from a leading string-literal statement instead of sibling comments.
	pythonDocstring bool
}

var registry = map[string]*descriptor{}

func register(exts []string, d *descriptor) {
	for _, ext := range exts {
		registry[ext] = d
	}
}

// lookup returns the descriptor registered for a lowercase extension
// (without the leading dot), or nil if the extension has no known grammar.
func lookup(ext string) *descriptor {
	return registry[ext]
}

// alwaysDocComment treats every comment as documentation. Used by Go, Ruby,
// and the Python sibling-comment fallback.
func alwaysDocComment(string) bool { return true }
