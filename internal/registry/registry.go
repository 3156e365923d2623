package registry

import (
	"fmt"
	"path/filepath"

	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/backend"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/common/fsutil"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/pkg/types"
)

// Registry answers "what models exist on disk right now" from a static
// catalog, without holding any loaded weights. Listing re-probes the
// filesystem on every call so models trained after startup become visible
// without a restart.
type Registry struct {
	entries []types.ModelDescriptor
}

// DefaultCatalog returns the standard model layout rooted at modelsDir: the
// transformer directories plus the serialized baseline pipelines.
func DefaultCatalog(modelsDir string) []types.ModelDescriptor {
	return []types.ModelDescriptor{
		{
			ID:           "distilbert",
			Kind:         types.BackendNeuralSingleLabel,
			ArtifactPath: filepath.Join(modelsDir, "transformer", "distilbert"),
			Description:  "Fine-tuned DistilBERT",
		},
		{
			ID:           "toxicity",
			Kind:         types.BackendNeuralMultiLabel,
			ArtifactPath: filepath.Join(modelsDir, "transformer", "toxicity"),
			Description:  "Multi-head DistilBERT toxicity classifier",
		},
		{
			ID:           "logistic_regression",
			Kind:         types.BackendLinearPipeline,
			ArtifactPath: filepath.Join(modelsDir, "baselines", "logistic_regression_tfidf.json"),
			Description:  "TF-IDF + Logistic Regression",
		},
		{
			ID:           "linear_svm",
			Kind:         types.BackendLinearPipeline,
			ArtifactPath: filepath.Join(modelsDir, "baselines", "linear_svm_tfidf.json"),
			Description:  "TF-IDF + Linear SVM",
		},
	}
}

// New builds a registry from catalog entries. Later entries replace earlier
// ones with the same id, so config-supplied entries can override the default
// catalog.
func New(entries ...[]types.ModelDescriptor) (*Registry, error) {
	byID := make(map[string]int)
	var merged []types.ModelDescriptor
	for _, group := range entries {
		for _, e := range group {
			if e.ID == "" {
				return nil, fmt.Errorf("catalog entry with empty id (path %q)", e.ArtifactPath)
			}
			path, err := fsutil.ExpandHome(e.ArtifactPath)
			if err != nil {
				return nil, err
			}
			e.ArtifactPath = path
			if i, ok := byID[e.ID]; ok {
				merged[i] = e
				continue
			}
			byID[e.ID] = len(merged)
			merged = append(merged, e)
		}
	}
	return &Registry{entries: merged}, nil
}

// ListAvailable returns the catalog entries whose minimum artifact set is
// present on disk. Stat-only, cheap enough for every health or listing call.
func (r *Registry) ListAvailable() []types.ModelDescriptor {
	out := make([]types.ModelDescriptor, 0, len(r.entries))
	for _, e := range r.entries {
		if backend.Probe(e) == nil {
			out = append(out, e)
		}
	}
	return out
}

// Resolve looks up id in the catalog and verifies its artifacts exist. An id
// absent from the catalog is a client error (unknown model); a known id whose
// artifacts fail probing is an operational error (not trained/deployed yet),
// reported with enough detail to tell an operator what is missing.
func (r *Registry) Resolve(id string) (types.ModelDescriptor, error) {
	for _, e := range r.entries {
		if e.ID == id {
			if err := backend.Probe(e); err != nil {
				return types.ModelDescriptor{}, err
			}
			return e, nil
		}
	}
	return types.ModelDescriptor{}, ErrUnknownModel(id)
}
