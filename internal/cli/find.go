package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/maharajah/internal/indexer"
	"github.com/mvp-joe/maharajah/internal/store"
	"github.com/mvp-joe/maharajah/internal/walker"
)

var (
	findLimit  int
	findFormat string
)

var findCmd = &cobra.Command{
	Use:   "find PROMPT",
	Short: "Find relevant code chunks by semantic similarity",
	Long:  "Find embeds PROMPT and searches the content vector column only.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(args[0], findLimit, findFormat, func(ctx context.Context, a *app, prompt string, limit int) ([]store.SearchResult, error) {
			return a.Retriever().Find(ctx, prompt, limit)
		})
	},
}

var queryCmd = &cobra.Command{
	Use:   "query PROMPT",
	Short: "Search using both content and summary embeddings, merged with RRF",
	Long:  "Query embeds PROMPT once, searches both vector columns, and fuses the two result lists with Reciprocal Rank Fusion.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(args[0], findLimit, findFormat, func(ctx context.Context, a *app, prompt string, limit int) ([]store.SearchResult, error) {
			return a.Retriever().Query(ctx, prompt, limit)
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{findCmd, queryCmd} {
		cmd.Flags().IntVarP(&findLimit, "limit", "n", 10, "maximum number of results to show")
		cmd.Flags().StringVar(&findFormat, "format", "text", "output format: text or json")
	}
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(queryCmd)
}

type searchFn func(ctx context.Context, a *app, prompt string, limit int) ([]store.SearchResult, error)

func runSearch(prompt string, limit int, format string, search searchFn) error {
	if format != "json" && format != "text" && format != "" {
		return fmt.Errorf("cli: unknown --format %q (want text or json)", format)
	}

	a, err := openExistingApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	refreshed, err := autoRefresh(ctx, a)
	if err != nil {
		return fmt.Errorf("cli: auto-refresh: %w", err)
	}
	if refreshed > 0 {
		fmt.Printf("[auto-refresh: %d file(s) updated]\n", refreshed)
	}

	results, err := search(ctx, a, prompt, limit)
	if err != nil {
		return fmt.Errorf("cli: search: %w", err)
	}

	if format == "json" {
		return printJSON(results)
	}
	printText(results)
	return nil
}

// autoRefresh reindexes any changed files before a search, so find/query
// never answer against a stale index. It returns the number of files that
// were (re)indexed.
func autoRefresh(ctx context.Context, a *app) (int, error) {
	files, err := walker.Walk(walker.Options{
		Root:              a.Target,
		Exclude:           a.Config.Index.DefaultExcludes,
		DefaultExtensions: a.Config.Index.DefaultExtensions,
	})
	if err != nil {
		return 0, fmt.Errorf("cli: walk %s: %w", a.Target, err)
	}

	stats, err := a.Indexer().RunFiles(ctx, indexer.Config{
		RootDir:           a.Target,
		DefaultExtensions: a.Config.Index.DefaultExtensions,
		Exclude:           a.Config.Index.DefaultExcludes,
		MaxChunkLines:     a.Config.Index.MaxChunkLines,
	}, files)
	if err != nil {
		return 0, err
	}
	return stats.Indexed, nil
}

func printJSON(results []store.SearchResult) error {
	type jsonResult struct {
		Rank      int     `json:"rank"`
		FilePath  string  `json:"file_path"`
		StartLine int     `json:"start_line"`
		EndLine   int     `json:"end_line"`
		Symbol    string  `json:"symbol"`
		Score     float32 `json:"score"`
		Content   string  `json:"content"`
		Summary   string  `json:"summary,omitempty"`
	}

	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{
			Rank: i + 1, FilePath: r.FilePath, StartLine: r.StartLine, EndLine: r.EndLine,
			Symbol: r.Symbol, Score: r.Score, Content: r.Content, Summary: r.Summary,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printText(results []store.SearchResult) {
	if len(results) == 0 {
		fmt.Println("no results")
		return
	}

	for i, r := range results {
		symbolDisplay := ""
		if r.Symbol != "" {
			symbolDisplay = "  " + r.Symbol
		}
		fmt.Printf("[%d] dist:%.4f  %s:%d-%d%s\n", i+1, r.Score, r.FilePath, r.StartLine, r.EndLine, symbolDisplay)
		if r.Summary != "" {
			fmt.Printf("  summary: %s\n", r.Summary)
		}
		fmt.Println(contentPreview(r.Content))
		fmt.Println()
	}
}

// contentPreview renders up to the first three lines of content, indented
// two spaces, matching the CLI's scan-a-result-at-a-glance output.
func contentPreview(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > 3 {
		lines = lines[:3]
	}
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
