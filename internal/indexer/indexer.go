// Package indexer reconciles on-disk filesystem state with the vector store
// using content hashes, driving the chunker and embedder for changed files.
package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/mvp-joe/maharajah/internal/chunk"
	"github.com/mvp-joe/maharajah/internal/embed"
	"github.com/mvp-joe/maharajah/internal/store"
	"github.com/mvp-joe/maharajah/internal/walker"
)

// Embedder is the subset of actor.Embedder the indexer depends on, kept as
// an interface so tests can substitute a deterministic stand-in.
type Embedder interface {
	Embed(ctx context.Context, text string, mode embed.EmbedMode) ([]float32, error)
}

// Config carries the walk and chunk parameters for one indexing run.
type Config struct {
	RootDir           string
	Include           []string
	Exclude           []string
	DefaultExtensions []string
	MaxChunkLines     int
	Reindex           bool

	// OnFile, if set, is called once per file after it has been processed
	// (indexed, skipped, or unreadable), for CLI progress reporting.
	OnFile func(path string)
}

// Stats reports what one run did.
type Stats struct {
	Indexed int
	Skipped int
}

// Indexer drives the parse -> chunk -> embed -> write pipeline for one
// target root against one store.
type Indexer struct {
	Store    *store.Store
	Embedder Embedder
}

// New wires a Store and Embedder into an Indexer.
func New(s *store.Store, e Embedder) *Indexer {
	return &Indexer{Store: s, Embedder: e}
}

// Run discovers files under cfg.RootDir and indexes each one, per §4.5's
// per-file algorithm. Files are processed sequentially; within a file,
// chunks are embedded in source order.
func (ix *Indexer) Run(ctx context.Context, cfg Config) (Stats, error) {
	files, err := walker.Walk(walker.Options{
		Root:              cfg.RootDir,
		Include:           cfg.Include,
		Exclude:           cfg.Exclude,
		DefaultExtensions: cfg.DefaultExtensions,
	})
	if err != nil {
		return Stats{}, fmt.Errorf("indexer: walk: %w", err)
	}
	return ix.RunFiles(ctx, cfg, files)
}

// RunFiles indexes an explicit file list, bypassing discovery. Used by the
// CLI's index command and its pre-search auto-refresh, which walk the tree
// themselves. A file that cannot be read is logged and counted neither as
// indexed nor as skipped.
func (ix *Indexer) RunFiles(ctx context.Context, cfg Config, files []string) (Stats, error) {
	var stats Stats

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("indexer: warning: read %s: %v", path, err)
			if cfg.OnFile != nil {
				cfg.OnFile(path)
			}
			continue
		}

		skipped, err := ix.indexOne(ctx, cfg, path, content)
		if err != nil {
			return stats, err
		}
		if skipped {
			stats.Skipped++
		} else {
			stats.Indexed++
		}
		if cfg.OnFile != nil {
			cfg.OnFile(path)
		}
	}

	return stats, nil
}

// indexOne runs the algorithm for one file whose bytes have already been
// read. The returned bool is true when the file was skipped (unchanged,
// binary, or empty after chunking).
func (ix *Indexer) indexOne(ctx context.Context, cfg Config, path string, content []byte) (bool, error) {
	sum := sha256.Sum256(content)
	currentHash := hex.EncodeToString(sum[:])

	relPath, err := filepath.Rel(cfg.RootDir, path)
	if err != nil {
		return false, fmt.Errorf("indexer: relative path for %s: %w", path, err)
	}
	relPath = filepath.ToSlash(relPath)

	if !cfg.Reindex {
		existingHash, found, err := ix.Store.GetFileHash(relPath)
		if err != nil {
			return false, fmt.Errorf("indexer: get file hash for %s: %w", relPath, err)
		}
		if found {
			if existingHash == currentHash {
				return true, nil
			}
			if err := ix.Store.DeleteFile(relPath); err != nil {
				return false, fmt.Errorf("indexer: delete stale rows for %s: %w", relPath, err)
			}
		}
	}

	if !utf8.Valid(content) {
		return true, nil
	}

	chunks, err := chunk.ParseFile(path, content, cfg.MaxChunkLines)
	if err != nil {
		return false, fmt.Errorf("indexer: parse %s: %w", path, err)
	}
	if len(chunks) == 0 {
		return true, nil
	}

	records := make([]store.ChunkRecord, 0, len(chunks))
	for i, c := range chunks {
		vector, err := ix.Embedder.Embed(ctx, c.Content, embed.EmbedModePassage)
		if err != nil {
			log.Printf("indexer: warning: embed chunk %d of %s: %v", i, relPath, err)
			continue
		}

		var summaryVector []float32
		if c.HasSummary() {
			summaryVector, err = ix.Embedder.Embed(ctx, c.Summary, embed.EmbedModePassage)
			if err != nil {
				log.Printf("indexer: warning: embed summary for chunk %d of %s: %v", i, relPath, err)
			}
		}

		records = append(records, store.ChunkRecord{
			ID:            fmt.Sprintf("%s:%d", relPath, c.StartLine),
			FilePath:      relPath,
			FileHash:      currentHash,
			Language:      c.Language,
			Symbol:        c.Symbol,
			NodeKind:      c.NodeKind,
			Content:       c.Content,
			StartLine:     c.StartLine,
			EndLine:       c.EndLine,
			Summary:       c.Summary,
			Vector:        vector,
			SummaryVector: summaryVector,
		})
	}

	if err := ix.Store.Insert(records); err != nil {
		return false, fmt.Errorf("indexer: insert records for %s: %w", relPath, err)
	}

	return false, nil
}
