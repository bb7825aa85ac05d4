package chunk

import sitter "github.com/tree-sitter/go-tree-sitter"

// nodeText returns the exact source text spanned by node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// extractSymbol scans node's direct children for the first child whose kind
// matches, in order, one of desc.symbolPriority. An anonymous function
// expression (e.g. a JS/TS arrow function) carries no name of its own; for
// those, the name is looked up one level up on the enclosing
// variable_declarator instead. Returns "" if none found; symbol extraction
// never fails.
func extractSymbol(node *sitter.Node, source []byte, desc *descriptor) string {
	if name := symbolFromChildren(node, source, desc); name != "" {
		return name
	}
	if parent := node.Parent(); parent != nil && parent.Kind() == "variable_declarator" {
		return symbolFromChildren(parent, source, desc)
	}
	return ""
}

func symbolFromChildren(node *sitter.Node, source []byte, desc *descriptor) string {
	for _, kind := range desc.symbolPriority {
		count := node.ChildCount()
		for i := uint(0); i < count; i++ {
			child := node.Child(i)
			if child != nil && child.Kind() == kind {
				return nodeText(child, source)
			}
		}
	}
	return ""
}
