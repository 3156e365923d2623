package backend

import (
	"context"
	"fmt"

	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/pkg/types"
)

// Backend is the capability interface implemented by every concrete
// prediction backend. Infer returns one dense score per label, in the order
// of LabelSpace, already passed through the backend's own normalization
// (softmax, per-head sigmoid, or the linear margin proxy).
type Backend interface {
	// Kind returns the backend kind the instance was opened as.
	Kind() types.BackendKind

	// LabelSpace returns the ordered class names, derived from artifact
	// metadata rather than hardcoded.
	LabelSpace() []string

	// Calibrated reports whether scores are true probabilities. False means
	// the scores are a monotonic proxy (e.g. squashed SVM margins) and must
	// be documented to callers as non-calibrated.
	Calibrated() bool

	// Infer scores a single text. It must tolerate empty and maximum-length
	// input; neural backends truncate to their max sequence length.
	Infer(ctx context.Context, text string) ([]float64, error)

	// Close releases resources held by the backend.
	Close() error
}

// Open loads the backend variant selected by the descriptor's kind. The kind
// is dispatched exactly once here; everything downstream is polymorphic.
func Open(desc types.ModelDescriptor) (Backend, error) {
	switch desc.Kind {
	case types.BackendNeuralSingleLabel, types.BackendNeuralMultiLabel:
		return openNeural(desc)
	case types.BackendLinearPipeline:
		return openLinear(desc)
	default:
		return nil, fmt.Errorf("unsupported backend kind: %q", desc.Kind)
	}
}

// Probe checks that the minimum artifact set for the descriptor's kind is
// present on disk. It only stats files and never deserializes anything, so it
// is cheap enough to run on every listing call.
func Probe(desc types.ModelDescriptor) error {
	switch desc.Kind {
	case types.BackendNeuralSingleLabel, types.BackendNeuralMultiLabel:
		return probeNeural(desc.ArtifactPath)
	case types.BackendLinearPipeline:
		return probeLinear(desc.ArtifactPath)
	default:
		return fmt.Errorf("unsupported backend kind: %q", desc.Kind)
	}
}
