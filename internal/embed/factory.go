package embed

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mvp-joe/maharajah/internal/embed/onnx"
)

// Config carries what's needed to construct a Provider.
type Config struct {
	// ModelDir is downloaded into and read from; see onnx.EmbeddingModelExists.
	ModelDir string
	// Dimensions is the model's output vector width; must match config.DbConfig.EmbeddingDim.
	Dimensions int
	// Mock selects the deterministic hash-based provider, for tests and offline runs.
	Mock bool
}

// New constructs a Provider from cfg, downloading the model into cfg.ModelDir
// on first use if it isn't already present there.
func New(cfg Config) (Provider, error) {
	if cfg.Mock {
		return NewMockProvider(), nil
	}

	if !onnx.EmbeddingModelExists(cfg.ModelDir) {
		if err := onnx.NewDownloader().DownloadEmbeddingModel(context.Background(), cfg.ModelDir, nil); err != nil {
			return nil, fmt.Errorf("embed: download model: %w", err)
		}
	}

	bgeDir := filepath.Join(cfg.ModelDir, "bge")
	onnxPath := filepath.Join(bgeDir, "model.onnx")
	tokenizerPath := filepath.Join(bgeDir, "tokenizer.json")
	provider, err := NewONNXProvider(onnxPath, tokenizerPath, cfg.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("embed: new provider: %w", err)
	}
	return provider, nil
}
