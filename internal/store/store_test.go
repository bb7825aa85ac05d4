package store

// Test Plan for Store:
// - OpenOrCreate creates the db file and schema
// - OpenOrCreate with reindex drops an existing db first
// - OpenOrCreate rejects a dimension mismatch unless reindexing
// - TryOpen returns nil, nil for a missing table
// - Insert is a no-op on an empty slice
// - Insert writes to chunks, chunks_vec, and conditionally chunks_summary_vec
// - CountRows / CountFiles / ListFiles reflect inserted data
// - GetFileHash returns found=false for an unknown file
// - DeleteFile removes rows from all three tables
// - Clear empties all three tables
// - Search orders by ascending distance
// - SearchBySummary only returns rows that had a summary vector
// - Round trip: insert, search, delete, re-search

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func record(id, filePath, hash string, vec []float32, summary string, summaryVec []float32) ChunkRecord {
	return ChunkRecord{
		ID:            id,
		FilePath:      filePath,
		FileHash:      hash,
		Language:      "go",
		Symbol:        "Foo",
		NodeKind:      "function_declaration",
		Content:       "func Foo() {}",
		StartLine:     1,
		EndLine:       1,
		Summary:       summary,
		Vector:        vec,
		SummaryVector: summaryVec,
	}
}

func TestOpenOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates schema", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		s, err := OpenOrCreate(dir, 3, "chunks", false)
		require.NoError(t, err)
		defer s.Close()

		n, err := s.CountRows()
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("reindex drops existing data", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		s1, err := OpenOrCreate(dir, 3, "chunks", false)
		require.NoError(t, err)
		require.NoError(t, s1.Insert([]ChunkRecord{record("a:1", "a.go", "h1", normalize([]float32{1, 0, 0}), "", nil)}))
		require.NoError(t, s1.Close())

		s2, err := OpenOrCreate(dir, 3, "chunks", true)
		require.NoError(t, err)
		defer s2.Close()

		n, err := s2.CountRows()
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("rejects dimension mismatch without reindex", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		s1, err := OpenOrCreate(dir, 3, "chunks", false)
		require.NoError(t, err)
		require.NoError(t, s1.Close())

		_, err = OpenOrCreate(dir, 8, "chunks", false)
		assert.Error(t, err)
	})
}

func TestTryOpen(t *testing.T) {
	t.Parallel()

	t.Run("missing table returns nil store and nil error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		s, err := TryOpen(filepath.Join(dir, "nonexistent"), 3, "chunks")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("existing table opens", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		s1, err := OpenOrCreate(dir, 3, "chunks", false)
		require.NoError(t, err)
		require.NoError(t, s1.Close())

		s2, err := TryOpen(dir, 3, "chunks")
		require.NoError(t, err)
		require.NotNil(t, s2)
		defer s2.Close()
	})
}

func TestInsertAndCount(t *testing.T) {
	t.Parallel()

	t.Run("no-op on empty slice", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		s, err := OpenOrCreate(dir, 3, "chunks", false)
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.Insert(nil))

		n, err := s.CountRows()
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("writes to chunks and vec tables", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		s, err := OpenOrCreate(dir, 3, "chunks", false)
		require.NoError(t, err)
		defer s.Close()

		records := []ChunkRecord{
			record("a.go:1", "a.go", "h1", normalize([]float32{1, 0, 0}), "does a thing", normalize([]float32{0.9, 0.1, 0})),
			record("b.go:1", "b.go", "h2", normalize([]float32{0, 1, 0}), "", nil),
		}
		require.NoError(t, s.Insert(records))

		rows, err := s.CountRows()
		require.NoError(t, err)
		assert.Equal(t, 2, rows)

		files, err := s.CountFiles()
		require.NoError(t, err)
		assert.Equal(t, 2, files)

		list, err := s.ListFiles()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a.go", "b.go"}, list)
	})
}

func TestGetFileHash(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := OpenOrCreate(dir, 3, "chunks", false)
	require.NoError(t, err)
	defer s.Close()

	_, found, err := s.GetFileHash("missing.go")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Insert([]ChunkRecord{record("a.go:1", "a.go", "deadbeef", normalize([]float32{1, 0, 0}), "", nil)}))

	hash, found, err := s.GetFileHash("a.go")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "deadbeef", hash)
}

func TestDeleteFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := OpenOrCreate(dir, 3, "chunks", false)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Insert([]ChunkRecord{
		record("a.go:1", "a.go", "h1", normalize([]float32{1, 0, 0}), "s", normalize([]float32{1, 0, 0})),
		record("a.go:2", "a.go", "h1", normalize([]float32{0, 1, 0}), "", nil),
		record("b.go:1", "b.go", "h2", normalize([]float32{0, 0, 1}), "", nil),
	}))

	require.NoError(t, s.DeleteFile("a.go"))

	rows, err := s.CountRows()
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	results, err := s.Search(normalize([]float32{1, 0, 0}), 10)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, "a.go", r.FilePath)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := OpenOrCreate(dir, 3, "chunks", false)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Insert([]ChunkRecord{
		record("a.go:1", "a.go", "h1", normalize([]float32{1, 0, 0}), "s", normalize([]float32{1, 0, 0})),
	}))

	require.NoError(t, s.Clear())

	n, err := s.CountRows()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	t.Run("orders by ascending distance", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		s, err := OpenOrCreate(dir, 3, "chunks", false)
		require.NoError(t, err)
		defer s.Close()

		require.NoError(t, s.Insert([]ChunkRecord{
			record("far:1", "far.go", "h", normalize([]float32{0, 0, 1}), "", nil),
			record("close:1", "close.go", "h", normalize([]float32{1, 0, 0}), "", nil),
			record("medium:1", "medium.go", "h", normalize([]float32{0.7, 0.3, 0}), "", nil),
		}))

		results, err := s.Search(normalize([]float32{1, 0, 0}), 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "close:1", results[0].ID)
		assert.Equal(t, "medium:1", results[1].ID)
		assert.Equal(t, "far:1", results[2].ID)
		assert.Less(t, results[0].Score, results[1].Score)
		assert.Less(t, results[1].Score, results[2].Score)
	})

	t.Run("respects limit", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		s, err := OpenOrCreate(dir, 3, "chunks", false)
		require.NoError(t, err)
		defer s.Close()

		var records []ChunkRecord
		for i := 0; i < 10; i++ {
			records = append(records, record(
				fmt.Sprintf("chunk-%d:1", i),
				"f.go", "h",
				normalize([]float32{float32(i) + 1, 1, 1}),
				"", nil,
			))
		}
		require.NoError(t, s.Insert(records))

		results, err := s.Search(normalize([]float32{1, 1, 1}), 5)
		require.NoError(t, err)
		assert.Len(t, results, 5)
	})
}

func TestSearchBySummary(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := OpenOrCreate(dir, 3, "chunks", false)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Insert([]ChunkRecord{
		record("a:1", "a.go", "h", normalize([]float32{1, 0, 0}), "has a summary", normalize([]float32{1, 0, 0})),
		record("b:1", "b.go", "h", normalize([]float32{0, 1, 0}), "", nil),
	}))

	results, err := s.SearchBySummary(normalize([]float32{1, 0, 0}), 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a:1", results[0].ID)
	assert.Equal(t, "has a summary", results[0].Summary)
}
