package embed

import (
	"context"
	"fmt"
	"math"

	"github.com/mvp-joe/maharajah/internal/embed/onnx"
)

// queryInstructionPrefix is prepended to query text before tokenization.
// BGE-family models were trained with this exact instruction string for
// asymmetric query/passage retrieval; passage text gets no prefix.
const queryInstructionPrefix = "Represent this sentence for searching relevant passages: "

// onnxProvider wraps an onnx.Model to satisfy Provider. The model
// itself is not required to be goroutine-safe under every runtime build, so
// callers that need concurrent access should route through internal/actor.
type onnxProvider struct {
	model *onnx.Model
	dim   int
}

// NewONNXProvider loads the embedding model from onnxPath/tokenizerPath.
func NewONNXProvider(onnxPath, tokenizerPath string, dim int) (Provider, error) {
	model, err := onnx.Load(onnxPath, tokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("embed: load onnx model: %w", err)
	}
	return &onnxProvider{model: model, dim: dim}, nil
}

func (p *onnxProvider) Embed(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	input := texts
	if mode == EmbedModeQuery {
		input = make([]string, len(texts))
		for i, t := range texts {
			input[i] = queryInstructionPrefix + t
		}
	}

	vectors, err := p.model.Embed(input)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}

	for _, v := range vectors {
		l2Normalize(v)
	}
	return vectors, nil
}

func (p *onnxProvider) Dimensions() int { return p.dim }

func (p *onnxProvider) Close() error { return p.model.Close() }

// l2Normalize scales v in place to unit length. A zero vector is left
// unchanged rather than dividing by zero.
func l2Normalize(v []float32) {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSq))
	for i := range v {
		v[i] /= norm
	}
}
