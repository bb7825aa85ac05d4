package chunk

import (
	"strings"

	csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

func init() {
	register([]string{"cs"}, &descriptor{
		name:     "csharp",
		language: func() *sitter.Language { return sitter.NewLanguage(csharp.Language()) },
		interestingKinds: set(
			"class_declaration",
			"interface_declaration",
			"struct_declaration",
			"enum_declaration",
			"record_declaration",
			"method_declaration",
			"constructor_declaration",
		),
		summaryEligibleKinds: set(
			"class_declaration",
			"interface_declaration",
			"struct_declaration",
			"enum_declaration",
			"record_declaration",
			"method_declaration",
			"constructor_declaration",
		),
		skippableForSummaryKinds: set("attribute_list", "modifier"),
		commentKinds:             set("comment"),
		isDocComment: func(raw string) bool {
			return strings.HasPrefix(raw, "///") || strings.HasPrefix(raw, "/**")
		},
		stripComments: func(rawTexts []string) string {
			var out []string
			for _, raw := range rawTexts {
				trimmed := strings.TrimSpace(raw)
				var cleaned string
				if strings.HasPrefix(trimmed, "/**") || strings.HasPrefix(trimmed, "/*") {
					cleaned = stripBlock(trimmed)
				} else {
					cleaned = stripLinePrefixed([]string{trimmed}, []string{"///"})
				}
				if cleaned != "" {
					out = append(out, cleaned)
				}
			}
			return stripCSharpXML(strings.Join(out, "\n"))
		},
		symbolPriority: []string{"identifier"},
	})
}
