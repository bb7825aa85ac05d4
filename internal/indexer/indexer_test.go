package indexer

// Test Plan for Indexer:
// - Run indexes new files and inserts chunk records
// - Run twice with no changes yields (indexed=0, skipped=all) the second time
// - Modifying one file deletes exactly that file's rows before reinserting
// - A non-UTF-8 file is skipped with zero rows inserted, no error surfaced
// - An unreadable file is counted neither as indexed nor as skipped, and does
//   not abort the run

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/maharajah/internal/embed"
	"github.com/mvp-joe/maharajah/internal/store"
)

type stubEmbedder struct {
	dim int
}

func (e *stubEmbedder) Embed(ctx context.Context, text string, mode embed.EmbedMode) ([]float32, error) {
	v := make([]float32, e.dim)
	for i := range v {
		v[i] = 1.0 / float32(e.dim)
	}
	return v, nil
}

func newTestIndexer(t *testing.T) (*Indexer, string) {
	t.Helper()
	dbDir := t.TempDir()
	s, err := store.OpenOrCreate(dbDir, 4, "chunks", false)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return New(s, &stubEmbedder{dim: 4}), t.TempDir()
}

func baseConfig(root string) Config {
	return Config{
		RootDir:           root,
		DefaultExtensions: []string{"go"},
		MaxChunkLines:     40,
	}
}

func TestRunIndexesNewFiles(t *testing.T) {
	t.Parallel()
	ix, root := newTestIndexer(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "add.go"),
		[]byte("package p\n\n// Adds two integers together.\nfunc Add(a, b int) int {\n\treturn a + b\n}\n"), 0o644))

	stats, err := ix.Run(context.Background(), baseConfig(root))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)
	assert.Equal(t, 0, stats.Skipped)

	rows, err := ix.Store.CountRows()
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
}

func TestRunIdempotent(t *testing.T) {
	t.Parallel()
	ix, root := newTestIndexer(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "add.go"),
		[]byte("package p\n\nfunc Add(a, b int) int {\n\treturn a + b\n}\n"), 0o644))

	cfg := baseConfig(root)
	_, err := ix.Run(context.Background(), cfg)
	require.NoError(t, err)

	before, err := ix.Store.CountRows()
	require.NoError(t, err)

	stats, err := ix.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Indexed)
	assert.Equal(t, 1, stats.Skipped)

	after, err := ix.Store.CountRows()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunHashReconciliation(t *testing.T) {
	t.Parallel()
	ix, root := newTestIndexer(t)

	path := filepath.Join(root, "add.go")
	require.NoError(t, os.WriteFile(path, []byte("package p\n\nfunc Add(a, b int) int {\n\treturn a + b\n}\n"), 0o644))

	cfg := baseConfig(root)
	_, err := ix.Run(context.Background(), cfg)
	require.NoError(t, err)

	rowsBefore, err := ix.Store.CountRows()
	require.NoError(t, err)
	require.Equal(t, 1, rowsBefore)

	require.NoError(t, os.WriteFile(path, []byte("package p\n\nfunc Add(a, b int) int {\n\treturn a + b + 1\n}\n\nfunc Sub(a, b int) int {\n\treturn a - b\n}\n"), 0o644))

	stats, err := ix.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)

	rowsAfter, err := ix.Store.CountRows()
	require.NoError(t, err)
	assert.Equal(t, 2, rowsAfter)
}

func TestRunSkipsBinaryFile(t *testing.T) {
	t.Parallel()
	ix, root := newTestIndexer(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.go"), []byte{0xff, 0xfe, 0x00, 0x01, 0x80}, 0o644))

	stats, err := ix.Run(context.Background(), baseConfig(root))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Indexed)
	assert.Equal(t, 1, stats.Skipped)

	rows, err := ix.Store.CountRows()
	require.NoError(t, err)
	assert.Equal(t, 0, rows)
}

func TestRunFilesCallsOnFilePerFile(t *testing.T) {
	t.Parallel()
	ix, root := newTestIndexer(t)

	for _, name := range []string{"a.go", "b.go"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("package p\n\nfunc F() {}\n"), 0o644))
	}

	cfg := baseConfig(root)
	var seen []string
	cfg.OnFile = func(path string) { seen = append(seen, path) }

	_, err := ix.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, seen, 2)
}

func TestRunContinuesPastUnreadableFile(t *testing.T) {
	t.Parallel()
	ix, root := newTestIndexer(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "good.go"),
		[]byte("package p\n\nfunc Ok() {}\n"), 0o644))
	// A dangling symlink is listed by the walker but cannot be read.
	require.NoError(t, os.Symlink(filepath.Join(root, "missing-target"), filepath.Join(root, "broken.go")))

	stats, err := ix.Run(context.Background(), baseConfig(root))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)
	assert.Equal(t, 0, stats.Skipped)
}
