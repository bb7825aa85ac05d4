package cli

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/maharajah/internal/httpapi"
	"github.com/mvp-joe/maharajah/internal/indexer"
	"github.com/mvp-joe/maharajah/internal/watcher"
)

const shutdownGrace = 5 * time.Second

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search daemon with live index refresh",
	Long: `Serve starts an HTTP server exposing POST /find and POST /query,
backed by a filesystem watcher that reindexes changed files in the
background.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntVar(&servePort, "port", 8118, "port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := openApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	refresh := func(ctx context.Context) error {
		_, err := a.Indexer().Run(ctx, indexer.Config{
			RootDir:           a.Target,
			DefaultExtensions: a.Config.Index.DefaultExtensions,
			Exclude:           a.Config.Index.DefaultExcludes,
			MaxChunkLines:     a.Config.Index.MaxChunkLines,
		})
		return err
	}

	w, err := watcher.New(a.Target, refresh)
	if err != nil {
		return fmt.Errorf("cli: start watcher: %w", err)
	}
	go w.Run(ctx)
	defer w.Close()

	addr := net.JoinHostPort(serveHost, fmt.Sprintf("%d", servePort))
	srv := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewHandler(a.Retriever()),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("maharajah: listening on http://%s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("cli: serve: %w", err)
	}
	return nil
}
