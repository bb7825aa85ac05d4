//go:build !rust_ffi

package onnx

import (
	"fmt"
	"path/filepath"

	"github.com/daulet/tokenizers"
	onnxruntime "github.com/yalue/onnxruntime_go"
)

// maxSequenceTokens bounds how many tokens of a single chunk get fed to the
// model. Longer inputs are truncated rather than rejected, since a code
// chunk's tail rarely changes what the embedding should mean.
const maxSequenceTokens = 512

// bgeSmallDim is the output width of BAAI/bge-small-en-v1.5, the only model
// this package loads. CLS-token pooling below reads exactly this many
// floats out of each row of the model's last_hidden_state output.
const bgeSmallDim = 384

// Model wraps an ONNX Runtime session plus its tokenizer for one loaded
// embedding model. Model holds no lock of its own: concurrent Embed calls are
// not serialized by Model.
type Model struct {
	session   *onnxruntime.DynamicAdvancedSession
	tokenizer *tokenizers.Tokenizer
}

// Load opens the ONNX graph at onnxPath and the HuggingFace tokenizer at
// tokenizerPath. If tokenizerPath doesn't point at a tokenizer.json file
// directly, it's resolved relative to onnxPath's directory instead.
func Load(onnxPath, tokenizerPath string) (*Model, error) {
	if filepath.Base(tokenizerPath) != "tokenizer.json" {
		tokenizerPath = filepath.Join(filepath.Dir(onnxPath), "tokenizer.json")
	}

	tok, err := tokenizers.FromFile(tokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: load tokenizer: %w", err)
	}

	inputs, outputs, err := onnxruntime.GetInputOutputInfo(onnxPath)
	if err != nil {
		tok.Close()
		return nil, fmt.Errorf("onnx: inspect graph: %w", err)
	}

	session, err := onnxruntime.NewDynamicAdvancedSession(
		onnxPath,
		nodeNames(inputs),
		nodeNames(outputs),
		nil,
	)
	if err != nil {
		tok.Close()
		return nil, fmt.Errorf("onnx: create session: %w", err)
	}

	return &Model{session: session, tokenizer: tok}, nil
}

func nodeNames(infos []onnxruntime.InputOutputInfo) []string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// encoded holds one text's tokenizer output, already clipped to
// maxSequenceTokens.
type encoded struct {
	ids        []int64
	attention  []int64
	tokenTypes []int64
}

func (m *Model) encode(text string) encoded {
	out := m.tokenizer.EncodeWithOptions(text, true,
		tokenizers.WithReturnAttentionMask(),
		tokenizers.WithReturnTypeIDs(),
	)

	n := len(out.IDs)
	if n > maxSequenceTokens {
		n = maxSequenceTokens
	}

	e := encoded{
		ids:        make([]int64, n),
		attention:  make([]int64, n),
		tokenTypes: make([]int64, n),
	}
	for i := 0; i < n; i++ {
		e.ids[i] = int64(out.IDs[i])
		e.attention[i] = int64(out.AttentionMask[i])
		e.tokenTypes[i] = int64(out.TypeIDs[i])
	}
	return e
}

// batchInput flattens a slice of encoded sequences into the three
// row-major [batch, maxLen] tensors BGE's graph expects, right-padding
// shorter sequences with zeros.
func batchInput(rows []encoded) (ids, attention, tokenTypes []int64, maxLen int) {
	for _, r := range rows {
		if len(r.ids) > maxLen {
			maxLen = len(r.ids)
		}
	}

	n := len(rows) * maxLen
	ids = make([]int64, n)
	attention = make([]int64, n)
	tokenTypes = make([]int64, n)

	for i, r := range rows {
		base := i * maxLen
		copy(ids[base:base+len(r.ids)], r.ids)
		copy(attention[base:base+len(r.attention)], r.attention)
		copy(tokenTypes[base:base+len(r.tokenTypes)], r.tokenTypes)
	}
	return ids, attention, tokenTypes, maxLen
}

// Embed runs a batch of texts through the model and returns one
// bgeSmallDim-wide vector per input, taken from the CLS token
// (position 0) of each sequence's last_hidden_state row.
func (m *Model) Embed(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	rows := make([]encoded, len(texts))
	for i, text := range texts {
		rows[i] = m.encode(text)
	}
	idsFlat, attnFlat, typesFlat, maxLen := batchInput(rows)

	shape := onnxruntime.NewShape(int64(len(texts)), int64(maxLen))

	idsTensor, err := onnxruntime.NewTensor(shape, idsFlat)
	if err != nil {
		return nil, fmt.Errorf("onnx: input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()

	attnTensor, err := onnxruntime.NewTensor(shape, attnFlat)
	if err != nil {
		return nil, fmt.Errorf("onnx: attention_mask tensor: %w", err)
	}
	defer attnTensor.Destroy()

	typesTensor, err := onnxruntime.NewTensor(shape, typesFlat)
	if err != nil {
		return nil, fmt.Errorf("onnx: token_type_ids tensor: %w", err)
	}
	defer typesTensor.Destroy()

	inputs := []onnxruntime.Value{idsTensor, attnTensor, typesTensor}
	outputs := []onnxruntime.Value{nil}
	if err := m.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("onnx: run inference: %w", err)
	}

	result, ok := outputs[0].(*onnxruntime.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("onnx: unexpected output type %T", outputs[0])
	}
	defer result.Destroy()

	return poolCLS(result.GetData(), len(texts), maxLen)
}

// poolCLS slices the CLS-token (first-token) embedding out of a flat
// [batch, seqLen, bgeSmallDim] tensor for every row in the batch.
func poolCLS(hidden []float32, batchSize, seqLen int) ([][]float32, error) {
	out := make([][]float32, batchSize)
	for i := 0; i < batchSize; i++ {
		start := i * seqLen * bgeSmallDim
		end := start + bgeSmallDim
		if end > len(hidden) {
			return nil, fmt.Errorf("onnx: output too short for batch row %d: want %d, have %d", i, end, len(hidden))
		}
		vec := make([]float32, bgeSmallDim)
		copy(vec, hidden[start:end])
		out[i] = vec
	}
	return out, nil
}

// Close releases the tokenizer and ONNX session. Safe to call more than
// once or on a zero-value Model.
func (m *Model) Close() error {
	if m.tokenizer != nil {
		m.tokenizer.Close()
	}
	if m.session != nil {
		return m.session.Destroy()
	}
	return nil
}
