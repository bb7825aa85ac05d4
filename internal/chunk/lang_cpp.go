package chunk

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

func init() {
	register([]string{"cpp", "cc", "cxx", "hpp", "hh", "hxx"}, &descriptor{
		name:     "cpp",
		language: func() *sitter.Language { return sitter.NewLanguage(cpp.Language()) },
		interestingKinds: set(
			"struct_specifier",
			"union_specifier",
			"enum_specifier",
			"class_specifier",
			"function_definition",
		),
		summaryEligibleKinds: set(
			"struct_specifier",
			"union_specifier",
			"enum_specifier",
			"class_specifier",
			"function_definition",
		),
		commentKinds:   set("comment"),
		isDocComment:   alwaysDocComment,
		stripComments:  stripMixedComments,
		symbolPriority: []string{"identifier", "type_identifier", "field_identifier"},
	})
}
