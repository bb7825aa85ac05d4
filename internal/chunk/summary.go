package chunk

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractSummary attaches a doc-comment summary to node, if one exists.
// Returns "" when no summary could be found; summary extraction never fails.
func extractSummary(node *sitter.Node, source []byte, desc *descriptor) string {
	if desc.pythonDocstring {
		if s := extractPythonDocstring(node, source); s != "" {
			return s
		}
		// Fall through to the generic "every # comment is documentation"
		// sibling walk, per the Python basic-fallback rule.
	}

	anchor := summaryAnchor(node)

	comments, exhausted := collectDocSiblings(anchor.PrevSibling(), source, desc)
	if len(comments) == 0 && exhausted && len(desc.groupWrapperKinds) > 0 {
		parent := anchor.Parent()
		if parent != nil && desc.groupWrapperKinds[parent.Kind()] && isFirstNamedChild(parent, anchor) {
			comments, _ = collectDocSiblings(parent.PrevSibling(), source, desc)
		}
	}

	if len(comments) == 0 {
		return ""
	}

	// comments were collected nearest-first; reverse to source order.
	texts := make([]string, len(comments))
	for i, c := range comments {
		texts[len(comments)-1-i] = nodeText(c, source)
	}
	return desc.stripComments(texts)
}

// collectDocSiblings walks backwards from start, skipping skippable kinds
// and collecting consecutive doc-comment siblings. It stops at the first
// sibling that is neither skippable nor a doc comment, or when siblings run
// out. Returned comments are nearest-first (reverse source order).
// exhausted reports whether the walk ran out of siblings naturally, as
// opposed to stopping against a blocking sibling.
func collectDocSiblings(start *sitter.Node, source []byte, desc *descriptor) (comments []*sitter.Node, exhausted bool) {
	sibling := start
	for sibling != nil {
		kind := sibling.Kind()
		if desc.skippableForSummaryKinds[kind] {
			sibling = sibling.PrevSibling()
			continue
		}
		if desc.commentKinds[kind] && desc.isDocComment(strings.TrimSpace(nodeText(sibling, source))) {
			comments = append(comments, sibling)
			sibling = sibling.PrevSibling()
			continue
		}
		return comments, false
	}
	return comments, true
}

// summaryAnchor returns the node whose preceding siblings should be searched
// for a doc comment. An anonymous function expression reached through a
// variable_declarator (e.g. a JS/TS arrow function assigned with const/let)
// carries no doc comment of its own; the comment, if any, precedes the
// enclosing declaration statement instead.
func summaryAnchor(node *sitter.Node) *sitter.Node {
	if parent := node.Parent(); parent != nil && parent.Kind() == "variable_declarator" {
		if grandparent := parent.Parent(); grandparent != nil {
			return grandparent
		}
	}
	return node
}

func isFirstNamedChild(parent, node *sitter.Node) bool {
	if parent.NamedChildCount() == 0 {
		return false
	}
	first := parent.NamedChild(0)
	return first != nil && first.StartByte() == node.StartByte() && first.EndByte() == node.EndByte()
}

// extractPythonDocstring implements the Python-specific rule: if the node's
// body's first statement is a string expression, its literal text is the
// summary (dedented, delimiters stripped).
func extractPythonDocstring(node *sitter.Node, source []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	stringNode := first.NamedChild(0)
	if stringNode == nil || stringNode.Kind() != "string" {
		return ""
	}
	return dedentPythonDocstring(nodeText(stringNode, source))
}
