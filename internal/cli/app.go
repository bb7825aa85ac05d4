package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/mvp-joe/maharajah/internal/actor"
	"github.com/mvp-joe/maharajah/internal/config"
	"github.com/mvp-joe/maharajah/internal/embed"
	"github.com/mvp-joe/maharajah/internal/indexer"
	"github.com/mvp-joe/maharajah/internal/retriever"
	"github.com/mvp-joe/maharajah/internal/store"
)

// app bundles the pieces every subcommand needs: resolved config, the
// on-disk store, and an embedder actor. Close must be called once the
// command is done with it.
type app struct {
	Config   *config.Config
	Target   string
	Store    *store.Store
	Embedder *actor.Embedder
}

func resolveTargetDir() (string, error) {
	if targetDir != "" {
		return targetDir, nil
	}
	return os.Getwd()
}

func loadConfig() (*config.Config, string, error) {
	if err := config.EnsureGlobalConfig(); err != nil {
		return nil, "", fmt.Errorf("cli: ensure global config: %w", err)
	}

	dir, err := resolveTargetDir()
	if err != nil {
		return nil, "", fmt.Errorf("cli: resolve target directory: %w", err)
	}

	cfg, err := config.LoadWithConfigFile(dir, cfgFile)
	if err != nil {
		return nil, "", fmt.Errorf("cli: load config: %w", err)
	}

	if verbosity > 0 {
		log.Printf("cli: target dir %s, table %q, model %q", dir, cfg.Db.TableName, cfg.Embed.ModelID)
	}
	return cfg, dir, nil
}

// openApp loads config and opens (or creates) the store and embedder. reindex
// forces a fresh table; pass false for read-only commands.
func openApp(reindex bool) (*app, error) {
	cfg, dir, err := loadConfig()
	if err != nil {
		return nil, err
	}

	s, err := store.OpenOrCreate(config.DbDir(dir), cfg.Db.EmbeddingDim, cfg.Db.TableName, reindex)
	if err != nil {
		return nil, fmt.Errorf("cli: open store: %w", err)
	}

	e, err := newEmbedder(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	return &app{Config: cfg, Target: dir, Store: s, Embedder: e}, nil
}

// openExistingApp is like openApp but fails with a clear message if no index
// exists yet, for read-only commands that make no sense against an empty
// project.
func openExistingApp() (*app, error) {
	cfg, dir, err := loadConfig()
	if err != nil {
		return nil, err
	}

	s, err := store.TryOpen(config.DbDir(dir), cfg.Db.EmbeddingDim, cfg.Db.TableName)
	if err != nil {
		return nil, fmt.Errorf("cli: open store: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("cli: no index found under %s; run `maharajah index` first", dir)
	}

	e, err := newEmbedder(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	return &app{Config: cfg, Target: dir, Store: s, Embedder: e}, nil
}

func newEmbedder(cfg *config.Config) (*actor.Embedder, error) {
	modelDir, err := config.ModelDir(cfg.Embed.ModelID)
	if err != nil {
		return nil, fmt.Errorf("cli: resolve model directory: %w", err)
	}

	provider, err := embed.New(embed.Config{
		ModelDir:   modelDir,
		Dimensions: cfg.Db.EmbeddingDim,
	})
	if err != nil {
		return nil, fmt.Errorf("cli: load embedding model: %w", err)
	}
	return actor.NewEmbedder(provider), nil
}

func (a *app) Close() {
	a.Embedder.Stop()
	a.Store.Close()
}

func (a *app) Indexer() *indexer.Indexer {
	return indexer.New(a.Store, a.Embedder)
}

func (a *app) Retriever() *retriever.Retriever {
	return retriever.New(a.Store, a.Embedder)
}
