package chunk

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

func init() {
	register([]string{"go"}, &descriptor{
		name:     "go",
		language: func() *sitter.Language { return sitter.NewLanguage(golang.Language()) },
		interestingKinds: set(
			"function_declaration",
			"method_declaration",
			"type_spec",
			"const_spec",
			"var_spec",
		),
		summaryEligibleKinds: set(
			"function_declaration",
			"method_declaration",
			"type_spec",
		),
		commentKinds:  set("comment"),
		isDocComment:  alwaysDocComment,
		stripComments: func(raw []string) string { return stripLinePrefixed(raw, []string{"//"}) },
		symbolPriority: []string{
			"identifier", "field_identifier", "type_identifier",
		},
	})
}

// set builds a membership set from a variadic kind list. Kept here rather
// than in registry.go since it is only needed by the language descriptors.
func set(kinds ...string) map[string]bool {
	m := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}
