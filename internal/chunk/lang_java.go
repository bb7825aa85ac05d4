package chunk

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

func init() {
	register([]string{"java"}, &descriptor{
		name:     "java",
		language: func() *sitter.Language { return sitter.NewLanguage(java.Language()) },
		interestingKinds: set(
			"class_declaration",
			"interface_declaration",
			"enum_declaration",
			"record_declaration",
			"method_declaration",
			"constructor_declaration",
		),
		summaryEligibleKinds: set(
			"class_declaration",
			"interface_declaration",
			"enum_declaration",
			"record_declaration",
			"method_declaration",
			"constructor_declaration",
		),
		skippableForSummaryKinds: set("modifiers"),
		commentKinds:             set("block_comment", "line_comment"),
		isDocComment:             func(raw string) bool { return strings.HasPrefix(raw, "/**") },
		stripComments:            stripBlockComments,
		symbolPriority:           []string{"identifier", "type_identifier"},
	})
}
