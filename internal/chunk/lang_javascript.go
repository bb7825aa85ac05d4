package chunk

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

func init() {
	register([]string{"js", "jsx", "mjs", "cjs"}, &descriptor{
		name:     "javascript",
		language: func() *sitter.Language { return sitter.NewLanguage(javascript.Language()) },
		interestingKinds: set(
			"function_declaration",
			"generator_function_declaration",
			"class_declaration",
			"arrow_function",
			"method_definition",
		),
		summaryEligibleKinds: set(
			"function_declaration",
			"generator_function_declaration",
			"class_declaration",
			"arrow_function",
			"method_definition",
		),
		commentKinds:   set("comment"),
		isDocComment:   func(raw string) bool { return strings.HasPrefix(raw, "/**") },
		stripComments:  stripBlockComments,
		symbolPriority: []string{"identifier", "property_identifier"},
	})
}
