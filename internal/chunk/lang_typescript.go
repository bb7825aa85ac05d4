package chunk

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var tsInteresting = set(
	"function_declaration",
	"generator_function_declaration",
	"class_declaration",
	"interface_declaration",
	"type_alias_declaration",
	"enum_declaration",
)

func init() {
	register([]string{"ts", "mts", "cts"}, &descriptor{
		name:                 "typescript",
		language:             func() *sitter.Language { return sitter.NewLanguage(typescript.LanguageTypescript()) },
		interestingKinds:     tsInteresting,
		summaryEligibleKinds: tsInteresting,
		commentKinds:         set("comment"),
		isDocComment:         func(raw string) bool { return strings.HasPrefix(raw, "/**") },
		stripComments:        stripBlockComments,
		symbolPriority:       []string{"identifier", "type_identifier", "property_identifier"},
	})

	register([]string{"tsx"}, &descriptor{
		name:                 "tsx",
		language:             func() *sitter.Language { return sitter.NewLanguage(typescript.LanguageTSX()) },
		interestingKinds:     tsInteresting,
		summaryEligibleKinds: tsInteresting,
		commentKinds:         set("comment"),
		isDocComment:         func(raw string) bool { return strings.HasPrefix(raw, "/**") },
		stripComments:        stripBlockComments,
		symbolPriority:       []string{"identifier", "type_identifier", "property_identifier"},
	})
}
