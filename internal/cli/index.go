package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/maharajah/internal/indexer"
	"github.com/mvp-joe/maharajah/internal/walker"
)

var (
	indexInclude    []string
	indexExclude    []string
	indexChunkLines int
	indexReindex    bool
	indexQuiet      bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index source files into the vector database",
	Long: `Index walks the target directory, chunks each source file with a
syntax-aware parser, embeds every chunk, and writes the result to the
on-disk vector store. Re-running it only touches files whose content
hash has changed.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringArrayVarP(&indexInclude, "include", "i", nil, "glob pattern to include (repeatable)")
	indexCmd.Flags().StringArrayVarP(&indexExclude, "exclude", "x", nil, "glob pattern to exclude (repeatable)")
	indexCmd.Flags().IntVar(&indexChunkLines, "chunk-lines", 40, "maximum chunk size in source lines")
	indexCmd.Flags().BoolVar(&indexReindex, "reindex", false, "wipe and rebuild the index from scratch")
	indexCmd.Flags().BoolVarP(&indexQuiet, "quiet", "q", false, "disable the progress bar")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := openApp(indexReindex)
	if err != nil {
		return err
	}
	defer a.Close()

	exclude := append(append([]string{}, a.Config.Index.DefaultExcludes...), indexExclude...)

	files, err := walker.Walk(walker.Options{
		Root:              a.Target,
		Include:           indexInclude,
		Exclude:           exclude,
		DefaultExtensions: a.Config.Index.DefaultExtensions,
	})
	if err != nil {
		return fmt.Errorf("cli: walk %s: %w", a.Target, err)
	}

	bar := newIndexProgressBar(len(files), indexQuiet)

	cfg := indexer.Config{
		RootDir:           a.Target,
		Include:           indexInclude,
		Exclude:           exclude,
		DefaultExtensions: a.Config.Index.DefaultExtensions,
		MaxChunkLines:     indexChunkLines,
		Reindex:           indexReindex,
		OnFile:            func(string) { bar.Add(1) },
	}

	ix := a.Indexer()
	stats, err := ix.RunFiles(ctx, cfg, files)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("cli: index: %w", err)
	}

	fmt.Printf("indexed %d file(s), skipped %d\n", stats.Indexed, stats.Skipped)
	return nil
}

func newIndexProgressBar(total int, quiet bool) *progressbar.ProgressBar {
	if quiet {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("indexing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
}
