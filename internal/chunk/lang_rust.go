package chunk

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

func init() {
	register([]string{"rs"}, &descriptor{
		name:     "rust",
		language: func() *sitter.Language { return sitter.NewLanguage(rust.Language()) },
		interestingKinds: set(
			"struct_item",
			"enum_item",
			"trait_item",
			"function_item",
			"const_item",
			"static_item",
			"impl_item",
			"type_item",
			"mod_item",
			"macro_definition",
			"union_item",
		),
		summaryEligibleKinds: set(
			"struct_item",
			"enum_item",
			"trait_item",
			"function_item",
			"impl_item",
			"mod_item",
			"union_item",
		),
		commentKinds: set("line_comment", "block_comment"),
		isDocComment: func(raw string) bool {
			return strings.HasPrefix(raw, "///") || strings.HasPrefix(raw, "/**")
		},
		stripComments: stripRustDoc,
		symbolPriority: []string{
			"identifier", "type_identifier", "field_identifier",
		},
	})
}

// stripRustDoc handles Rust's mixed "///" line-doc and "/** */" block-doc
// comments: each collected node is stripped according to its own form, then
// the cleaned lines are joined.
func stripRustDoc(rawTexts []string) string {
	var out []string
	for _, raw := range rawTexts {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "/**") {
			if cleaned := stripBlock(trimmed); cleaned != "" {
				out = append(out, cleaned)
			}
			continue
		}
		cleaned := stripLinePrefixed([]string{trimmed}, []string{"///"})
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return strings.Join(out, "\n")
}
