package chunk

import "strings"

// stripLinePrefixed strips the most specific of preferredPrefixes (checked
// in order) from each raw comment line, trims the remainder, and joins the
// results with newlines. Used for Rust and C# "///" lines, C/C++ "//"
// lines, and the Go/Ruby/Python "every comment is documentation" fallback.
func stripLinePrefixed(rawTexts []string, preferredPrefixes []string) string {
	var lines []string
	for _, raw := range rawTexts {
		line := raw
		for _, prefix := range preferredPrefixes {
			if strings.HasPrefix(strings.TrimLeft(line, " \t"), prefix) {
				line = strings.TrimLeft(line, " \t")
				line = strings.TrimPrefix(line, prefix)
				break
			}
		}
		line = strings.TrimSpace(line)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// stripBlock cleans a single "/** ... */" or "/* ... */" comment: strips the
// opening and closing markers, strips a leading "*" from each line, trims,
// and drops empty lines.
func stripBlock(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// stripBlockComments applies stripBlock to each raw comment node's text and
// joins the cleaned results with newlines.
func stripBlockComments(rawTexts []string) string {
	var out []string
	for _, raw := range rawTexts {
		cleaned := stripBlock(raw)
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return strings.Join(out, "\n")
}

// stripMixedComments handles a grammar that reports both "//" line comments
// and "/* */" block comments under a single "comment" node kind: each raw
// text is routed to stripBlock or stripLinePrefixed by its own form.
func stripMixedComments(rawTexts []string) string {
	var out []string
	for _, raw := range rawTexts {
		trimmed := strings.TrimSpace(raw)
		var cleaned string
		if strings.HasPrefix(trimmed, "/*") {
			cleaned = stripBlock(trimmed)
		} else {
			cleaned = stripLinePrefixed([]string{trimmed}, []string{"//"})
		}
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return strings.Join(out, "\n")
}

// stripCSharpXML removes XML doc tags (<...>) from an already line-stripped
// C# doc comment and drops any line that becomes empty as a result.
func stripCSharpXML(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = removeXMLTags(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// removeXMLTags drops every substring delimited by '<' and '>' in s.
func removeXMLTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dedentPythonDocstring strips triple or single quote delimiters from a
// Python string literal, dedents continuation lines by the minimum common
// leading-whitespace width, and trims the result.
func dedentPythonDocstring(literal string) string {
	text := literal
	for _, prefix := range []string{"\"\"\"", "'''"} {
		if strings.HasPrefix(text, prefix) && strings.HasSuffix(text, prefix) && len(text) >= 2*len(prefix) {
			text = text[len(prefix) : len(text)-len(prefix)]
			return dedentLines(text)
		}
	}
	for _, prefix := range []string{"\"", "'"} {
		if strings.HasPrefix(text, prefix) && strings.HasSuffix(text, prefix) && len(text) >= 2*len(prefix) {
			text = text[len(prefix) : len(text)-len(prefix)]
			return dedentLines(text)
		}
	}
	return strings.TrimSpace(text)
}

// dedentLines removes the minimum common leading-whitespace width from every
// non-first, non-blank line, then trims the whole block.
func dedentLines(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return strings.TrimSpace(text)
	}

	minIndent := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		minIndent = 0
	}

	out := make([]string, len(lines))
	out[0] = strings.TrimSpace(lines[0])
	for i, line := range lines[1:] {
		if len(line) >= minIndent {
			line = line[minIndent:]
		}
		out[i+1] = line
	}

	joined := strings.Join(out, "\n")
	return strings.TrimSpace(joined)
}
