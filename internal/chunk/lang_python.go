package chunk

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

func init() {
	register([]string{"py"}, &descriptor{
		name:     "python",
		language: func() *sitter.Language { return sitter.NewLanguage(python.Language()) },
		interestingKinds: set(
			"function_definition",
			"class_definition",
		),
		summaryEligibleKinds: set(
			"function_definition",
			"class_definition",
		),
		commentKinds:    set("comment"),
		isDocComment:    alwaysDocComment,
		stripComments:   func(raw []string) string { return stripLinePrefixed(raw, []string{"#"}) },
		symbolPriority:  []string{"identifier"},
		pythonDocstring: true,
	})
}
