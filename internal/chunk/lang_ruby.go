package chunk

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
)

func init() {
	register([]string{"rb"}, &descriptor{
		name:     "ruby",
		language: func() *sitter.Language { return sitter.NewLanguage(ruby.Language()) },
		interestingKinds: set(
			"class",
			"module",
			"method",
			"singleton_method",
		),
		summaryEligibleKinds: set(
			"class",
			"module",
			"method",
			"singleton_method",
		),
		commentKinds:    set("comment"),
		isDocComment:    alwaysDocComment,
		stripComments:   func(raw []string) string { return stripLinePrefixed(raw, []string{"#"}) },
		symbolPriority:  []string{"identifier", "constant"},
		pythonDocstring: false,
	})
}
