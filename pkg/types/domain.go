package types

// BackendKind selects the prediction backend used to serve a model.
type BackendKind string

const (
	// BackendNeuralSingleLabel is a transformer classifier whose classes are
	// mutually exclusive (softmax over the final logits).
	BackendNeuralSingleLabel BackendKind = "neural_single_label"
	// BackendNeuralMultiLabel is a transformer classifier with independent
	// binary heads (sigmoid per logit).
	BackendNeuralMultiLabel BackendKind = "neural_multi_label"
	// BackendLinearPipeline is a TF-IDF vectorizer plus linear model serialized
	// as a single pipeline file.
	BackendLinearPipeline BackendKind = "linear_pipeline"
)

// MultiLabel reports whether the kind produces independent per-category
// decisions rather than a single winning class.
func (k BackendKind) MultiLabel() bool { return k == BackendNeuralMultiLabel }

// ModelDescriptor identifies one loadable model in the catalog.
type ModelDescriptor struct {
	// Stable identifier for the model.
	// example: distilbert
	ID string `json:"id" yaml:"id" toml:"id" example:"distilbert"`
	// Backend kind used to load and run the model.
	// example: neural_single_label
	Kind BackendKind `json:"kind" yaml:"kind" toml:"kind" example:"neural_single_label"`
	// Path to the artifact directory (neural) or pipeline file (linear).
	// example: models/transformer/distilbert
	ArtifactPath string `json:"artifact_path" yaml:"artifact_path" toml:"artifact_path" example:"models/transformer/distilbert"`
	// Human-readable description, not behaviorally significant.
	// example: Fine-tuned DistilBERT
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" example:"Fine-tuned DistilBERT"`
}
