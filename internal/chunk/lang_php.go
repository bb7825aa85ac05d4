package chunk

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

func init() {
	register([]string{"php"}, &descriptor{
		name:     "php",
		language: func() *sitter.Language { return sitter.NewLanguage(php.LanguagePHP()) },
		interestingKinds: set(
			"class_declaration",
			"interface_declaration",
			"trait_declaration",
			"function_definition",
			"method_declaration",
		),
		summaryEligibleKinds: set(
			"class_declaration",
			"interface_declaration",
			"trait_declaration",
			"function_definition",
			"method_declaration",
		),
		commentKinds:   set("comment"),
		isDocComment:   func(raw string) bool { return strings.HasPrefix(raw, "/**") },
		stripComments:  stripBlockComments,
		symbolPriority: []string{"name"},
	})
}
