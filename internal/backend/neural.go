package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/common/fsutil"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/pkg/types"
)

// Minimum artifact set for a neural model directory.
const (
	neuralConfigFile    = "config.json"
	neuralWeightsFile   = "model.onnx"
	neuralTokenizerFile = "tokenizer.json"
	neuralLabelsFile    = "labels.json"
)

// Truncation limits per kind, matching the sequence lengths the models were
// trained with. Inputs longer than this are truncated, never rejected.
const (
	singleLabelSeqLen = 512
	multiLabelSeqLen  = 256
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// ensureRuntime initializes the onnxruntime environment once per process.
// The shared library location can be overridden via
// ONNXRUNTIME_SHARED_LIBRARY_PATH.
func ensureRuntime() error {
	ortInitOnce.Do(func() {
		if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
			ort.SetSharedLibraryPath(p)
		}
		if !ort.IsInitialized() {
			ortInitErr = ort.InitializeEnvironment()
		}
	})
	return ortInitErr
}

// labelMapping is the labels.json layout written by the training pipeline.
type labelMapping struct {
	Label2ID map[string]int    `json:"label2id"`
	ID2Label map[string]string `json:"id2label"`
	Classes  []string          `json:"classes"`
}

// classList returns the ordered label space: the explicit classes array when
// present, otherwise id2label sorted by numeric id.
func (m labelMapping) classList() ([]string, error) {
	if len(m.Classes) > 0 {
		return m.Classes, nil
	}
	if len(m.ID2Label) == 0 {
		return nil, fmt.Errorf("label mapping has neither classes nor id2label")
	}
	ids := make([]int, 0, len(m.ID2Label))
	for k := range m.ID2Label {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("non-numeric id2label key %q", k)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.ID2Label[strconv.Itoa(id)])
	}
	return out, nil
}

type neuralSession struct {
	session       *ort.AdvancedSession
	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	output        *ort.Tensor[float32]
}

func (s *neuralSession) destroy() {
	if s.session != nil {
		s.session.Destroy()
	}
	if s.inputIDs != nil {
		s.inputIDs.Destroy()
	}
	if s.attentionMask != nil {
		s.attentionMask.Destroy()
	}
	if s.output != nil {
		s.output.Destroy()
	}
}

// Neural serves a transformer classifier through onnxruntime. The single-label
// variant applies softmax over the final logits; the multi-label variant an
// independent sigmoid per head.
type Neural struct {
	desc    types.ModelDescriptor
	tk      *tokenizer.Tokenizer
	classes []string
	seqLen  int

	mu       sync.Mutex
	sessions chan *neuralSession
}

func probeNeural(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return ErrArtifactMissing(dir, "model directory not found")
	}
	if !info.IsDir() {
		return ErrArtifactMissing(dir, "artifact path is not a directory")
	}
	var missing []string
	for _, name := range []string{neuralConfigFile, neuralWeightsFile, neuralTokenizerFile, neuralLabelsFile} {
		if !fsutil.PathExists(filepath.Join(dir, name)) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return ErrArtifactMissing(dir, "missing "+strings.Join(missing, ", "))
	}
	return nil
}

func openNeural(desc types.ModelDescriptor) (Backend, error) {
	if err := probeNeural(desc.ArtifactPath); err != nil {
		return nil, err
	}
	if err := ensureRuntime(); err != nil {
		return nil, fmt.Errorf("onnxruntime unavailable: %w", err)
	}

	dir := desc.ArtifactPath
	raw, err := os.ReadFile(filepath.Join(dir, neuralLabelsFile))
	if err != nil {
		return nil, ErrArtifactMissing(dir, err.Error())
	}
	var mapping labelMapping
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, ErrArtifactCorrupt(dir, err)
	}
	classes, err := mapping.classList()
	if err != nil {
		return nil, ErrArtifactCorrupt(dir, err)
	}

	seqLen := singleLabelSeqLen
	if desc.Kind.MultiLabel() {
		seqLen = multiLabelSeqLen
	}
	if maxPos, err := readMaxPositions(filepath.Join(dir, neuralConfigFile)); err != nil {
		return nil, ErrArtifactCorrupt(dir, err)
	} else if maxPos > 0 && maxPos < seqLen {
		seqLen = maxPos
	}

	tk, err := pretrained.FromFile(filepath.Join(dir, neuralTokenizerFile))
	if err != nil {
		return nil, ErrArtifactCorrupt(dir, fmt.Errorf("load tokenizer: %w", err))
	}

	ss, err := newNeuralSession(filepath.Join(dir, neuralWeightsFile), seqLen, len(classes))
	if err != nil {
		return nil, ErrArtifactCorrupt(dir, err)
	}
	sessions := make(chan *neuralSession, 1)
	sessions <- ss

	return &Neural{desc: desc, tk: tk, classes: classes, seqLen: seqLen, sessions: sessions}, nil
}

// readMaxPositions pulls max_position_embeddings out of the model config.
func readMaxPositions(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var cfg struct {
		MaxPositionEmbeddings int `json:"max_position_embeddings"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return 0, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg.MaxPositionEmbeddings, nil
}

func newNeuralSession(modelPath string, seqLen, numLabels int) (*neuralSession, error) {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer opts.Destroy()
	if err := opts.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return nil, fmt.Errorf("set graph optimization: %w", err)
	}

	inputShape := ort.NewShape(1, int64(seqLen))
	inputIDs, err := ort.NewEmptyTensor[int64](inputShape)
	if err != nil {
		return nil, fmt.Errorf("allocate input_ids tensor: %w", err)
	}
	attnMask, err := ort.NewEmptyTensor[int64](inputShape)
	if err != nil {
		inputIDs.Destroy()
		return nil, fmt.Errorf("allocate attention_mask tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(numLabels)))
	if err != nil {
		inputIDs.Destroy()
		attnMask.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		[]ort.Value{inputIDs, attnMask},
		[]ort.Value{output},
		opts,
	)
	if err != nil {
		inputIDs.Destroy()
		attnMask.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}
	return &neuralSession{session: session, inputIDs: inputIDs, attentionMask: attnMask, output: output}, nil
}

func (n *Neural) Kind() types.BackendKind { return n.desc.Kind }

func (n *Neural) LabelSpace() []string {
	out := make([]string, len(n.classes))
	copy(out, n.classes)
	return out
}

func (n *Neural) Calibrated() bool { return true }

func (n *Neural) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sessions == nil {
		return nil
	}
	close(n.sessions)
	for ss := range n.sessions {
		ss.destroy()
	}
	n.sessions = nil
	return nil
}

// Infer tokenizes text, runs the forward pass, and normalizes the logits.
// Input beyond the model's sequence length is truncated; empty input still
// encodes to the special tokens and produces a valid low-information result.
func (n *Neural) Infer(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	en, err := n.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, ErrInference(fmt.Errorf("tokenize: %w", err))
	}
	ids, mask := padTruncate(en.Ids, en.AttentionMask, n.seqLen)

	n.mu.Lock()
	sessions := n.sessions
	n.mu.Unlock()
	if sessions == nil {
		return nil, ErrInference(fmt.Errorf("backend closed"))
	}
	ss := <-sessions
	defer func() { sessions <- ss }()

	copy(ss.inputIDs.GetData(), ids)
	copy(ss.attentionMask.GetData(), mask)
	if err := ss.session.Run(); err != nil {
		return nil, ErrInference(fmt.Errorf("onnx run: %w", err))
	}

	logits := ss.output.GetData()
	if len(logits) < len(n.classes) {
		return nil, ErrInference(fmt.Errorf("model returned %d logits for %d classes", len(logits), len(n.classes)))
	}
	row := make([]float64, len(n.classes))
	for i := range row {
		row[i] = float64(logits[i])
	}
	if n.desc.Kind.MultiLabel() {
		for i, v := range row {
			row[i] = sigmoid(v)
		}
		return row, nil
	}
	return softmax(row), nil
}

// padTruncate converts tokenizer output into fixed-length int64 slices of
// seqLen, truncating long inputs and zero-padding short ones.
func padTruncate(ids, mask []int, seqLen int) ([]int64, []int64) {
	outIDs := make([]int64, seqLen)
	outMask := make([]int64, seqLen)
	for i := 0; i < seqLen && i < len(ids); i++ {
		outIDs[i] = int64(ids[i])
	}
	for i := 0; i < seqLen && i < len(mask); i++ {
		outMask[i] = int64(mask[i])
	}
	return outIDs, outMask
}
