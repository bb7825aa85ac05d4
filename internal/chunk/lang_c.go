package chunk

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

func init() {
	register([]string{"c", "h"}, &descriptor{
		name:     "c",
		language: func() *sitter.Language { return sitter.NewLanguage(c.Language()) },
		interestingKinds: set(
			"struct_specifier",
			"union_specifier",
			"enum_specifier",
			"function_definition",
		),
		summaryEligibleKinds: set(
			"struct_specifier",
			"union_specifier",
			"enum_specifier",
			"function_definition",
		),
		commentKinds:   set("comment"),
		isDocComment:   alwaysDocComment,
		stripComments:  stripMixedComments,
		symbolPriority: []string{"identifier", "type_identifier", "field_identifier"},
	})
}
