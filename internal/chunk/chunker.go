package chunk

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParseFile parses one file's content with the grammar selected by its
// extension and returns its chunks. It is a pure function of its inputs.
//
// Extensions without a known grammar return an empty chunk list. A known
// grammar that fails to load, or a parse that produces no tree, falls back
// to naive line-windowing with empty Symbol and NodeKind.
func ParseFile(path string, content []byte, maxChunkLines int) ([]Chunk, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	desc := lookup(ext)
	if desc == nil {
		return []Chunk{}, nil
	}

	lang := desc.language()
	if lang == nil {
		return naiveWindow(content, maxChunkLines), nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return naiveWindow(content, maxChunkLines), nil
	}
	defer tree.Close()

	offsets := lineStartOffsets(content)

	var chunks []Chunk
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		kind := node.Kind()
		if desc.pruneKinds[kind] {
			return
		}
		if desc.interestingKinds[kind] {
			chunks = append(chunks, buildChunks(node, content, offsets, desc, maxChunkLines)...)
			return
		}
		count := node.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(node.Child(i))
		}
	}
	walk(tree.RootNode())

	if chunks == nil {
		chunks = []Chunk{}
	}
	return chunks, nil
}

// buildChunks turns one interesting node into one or more chunks, applying
// the oversize window-split policy.
func buildChunks(node *sitter.Node, source []byte, offsets []int, desc *descriptor, maxChunkLines int) []Chunk {
	startLine := int(node.StartPosition().Row)
	endLine := int(node.EndPosition().Row)
	kind := node.Kind()

	symbol := extractSymbol(node, source, desc)
	var summary string
	if desc.summaryEligibleKinds[kind] {
		summary = extractSummary(node, source, desc)
	}

	lineCount := endLine - startLine + 1
	if maxChunkLines <= 0 || lineCount <= maxChunkLines {
		return []Chunk{{
			Language:  desc.name,
			Symbol:    symbol,
			NodeKind:  kind,
			Content:   nodeText(node, source),
			StartLine: startLine,
			EndLine:   endLine,
			Summary:   summary,
		}}
	}

	var windows []Chunk
	for winStart := startLine; winStart <= endLine; winStart += maxChunkLines {
		winEnd := winStart + maxChunkLines - 1
		if winEnd > endLine {
			winEnd = endLine
		}
		windows = append(windows, Chunk{
			Language:  desc.name,
			Symbol:    symbol,
			NodeKind:  kind,
			Content:   sliceLines(source, offsets, winStart, winEnd),
			StartLine: winStart,
			EndLine:   winEnd,
			Summary:   summary,
		})
	}
	return windows
}

// naiveWindow splits content into contiguous line windows of at most
// maxChunkLines lines with empty Symbol and NodeKind, used as the chunker's
// fallback when no grammar is available.
func naiveWindow(content []byte, maxChunkLines int) []Chunk {
	offsets := lineStartOffsets(content)
	totalLines := len(offsets)
	if totalLines == 0 {
		return []Chunk{}
	}
	if maxChunkLines <= 0 {
		maxChunkLines = totalLines
	}

	var chunks []Chunk
	for start := 0; start < totalLines; start += maxChunkLines {
		end := start + maxChunkLines - 1
		if end > totalLines-1 {
			end = totalLines - 1
		}
		chunks = append(chunks, Chunk{
			Content:   sliceLines(content, offsets, start, end),
			StartLine: start,
			EndLine:   end,
		})
	}
	return chunks
}

// lineStartOffsets returns the byte offset at which each zero-based line of
// content begins.
func lineStartOffsets(content []byte) []int {
	offsets := []int{0}
	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	// Drop a trailing phantom line produced by a final newline, unless the
	// file is empty.
	if len(content) > 0 && content[len(content)-1] == '\n' && len(offsets) > 1 {
		offsets = offsets[:len(offsets)-1]
	}
	return offsets
}

// sliceLines returns the exact bytes of content spanning zero-based
// inclusive lines [startLine, endLine].
func sliceLines(content []byte, offsets []int, startLine, endLine int) string {
	if startLine < 0 || startLine >= len(offsets) {
		return ""
	}
	if endLine >= len(offsets) {
		endLine = len(offsets) - 1
	}
	start := offsets[startLine]
	var end int
	if endLine+1 < len(offsets) {
		end = offsets[endLine+1]
		// Trim the trailing newline that separates this line from the next.
		if end > start && content[end-1] == '\n' {
			end--
		}
	} else {
		end = len(content)
	}
	return string(content[start:end])
}
