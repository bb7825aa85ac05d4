// Package retriever embeds search prompts and ranks store results, fusing
// two independent vector arms with Reciprocal Rank Fusion when asked.
package retriever

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/maharajah/internal/embed"
	"github.com/mvp-joe/maharajah/internal/store"
)

// rrfK is the RRF smoothing constant fixed by the fusion law.
const rrfK = 60

// Embedder is the subset of actor.Embedder the retriever depends on.
type Embedder interface {
	Embed(ctx context.Context, text string, mode embed.EmbedMode) ([]float32, error)
}

// Retriever answers find/query against one store using one embedder.
type Retriever struct {
	Store    *store.Store
	Embedder Embedder
}

// New wires a Store and Embedder into a Retriever.
func New(s *store.Store, e Embedder) *Retriever {
	return &Retriever{Store: s, Embedder: e}
}

// Find embeds prompt and returns the top limit results from the content
// vector column, ordered by ascending distance.
func (r *Retriever) Find(ctx context.Context, prompt string, limit int) ([]store.SearchResult, error) {
	vector, err := r.Embedder.Embed(ctx, prompt, embed.EmbedModeQuery)
	if err != nil {
		return nil, fmt.Errorf("retriever: embed query: %w", err)
	}

	results, err := r.Store.Search(vector, limit)
	if err != nil {
		return nil, fmt.Errorf("retriever: search: %w", err)
	}
	return results, nil
}

// Query embeds prompt once, runs the content and summary searches
// concurrently with the same limit, and fuses the two ranked lists with
// Reciprocal Rank Fusion (K=60).
func (r *Retriever) Query(ctx context.Context, prompt string, limit int) ([]store.SearchResult, error) {
	vector, err := r.Embedder.Embed(ctx, prompt, embed.EmbedModeQuery)
	if err != nil {
		return nil, fmt.Errorf("retriever: embed query: %w", err)
	}

	var contentResults, summaryResults []store.SearchResult

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := r.Store.Search(vector, limit)
		if err != nil {
			return fmt.Errorf("retriever: content search: %w", err)
		}
		contentResults = res
		return nil
	})
	g.Go(func() error {
		res, err := r.Store.SearchBySummary(vector, limit)
		if err != nil {
			return fmt.Errorf("retriever: summary search: %w", err)
		}
		summaryResults = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return FuseRRF(contentResults, summaryResults, limit), nil
}

// FuseRRF combines two rank-ordered result lists by Reciprocal Rank Fusion.
// Rank positions start at 1; a row's contribution from a list is
// 1/(rrfK+rank). A row's fused score is the sum of its contributions across
// both lists (absence from a list contributes zero). Results are sorted
// descending by fused score, ties broken by first-seen order, then
// truncated to limit. Each result's Score field is overwritten with its
// fused score.
func FuseRRF(contentResults, summaryResults []store.SearchResult, limit int) []store.SearchResult {
	type fused struct {
		result store.SearchResult
		score  float64
		order  int
	}

	byID := make(map[string]*fused)
	var order []string

	add := func(results []store.SearchResult) {
		for i, res := range results {
			rank := i + 1
			contribution := 1.0 / float64(rrfK+rank)

			f, ok := byID[res.ID]
			if !ok {
				f = &fused{result: res, order: len(order)}
				byID[res.ID] = f
				order = append(order, res.ID)
			}
			f.score += contribution
		}
	}

	add(contentResults)
	add(summaryResults)

	entries := make([]*fused, 0, len(order))
	for _, id := range order {
		entries = append(entries, byID[id])
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]store.SearchResult, len(entries))
	for i, e := range entries {
		res := e.result
		res.Score = float32(e.score)
		out[i] = res
	}
	return out
}
