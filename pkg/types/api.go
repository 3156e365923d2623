package types

// PredictRequest is the payload for POST /predict.
type PredictRequest struct {
	// Required text to classify.
	// example: I love this movie, it was fantastic!
	Text string `json:"text" example:"I love this movie, it was fantastic!"`
}

// ClassScore is one label with its score. For multi-label models Flagged
// reports whether the score cleared the decision threshold.
type ClassScore struct {
	// Class label.
	// example: Hate Speech
	Label string `json:"label" example:"Hate Speech"`
	// Score in [0,1]. Calibrated probability or a documented proxy,
	// depending on the serving backend.
	// example: 0.93
	Score float64 `json:"score" example:"0.93"`
	// Set for multi-label models when score >= threshold.
	Flagged bool `json:"flagged,omitempty"`
}

// PredictResponse is the backend-agnostic prediction result.
//
// Mutually-exclusive models fill PredictedLabel/Confidence and return Scores
// sorted descending. Multi-label models leave PredictedLabel empty and return
// Scores in fixed label-space order with per-category flags.
type PredictResponse struct {
	// ID of the model that produced this result.
	// example: distilbert
	ModelID string `json:"model_id" example:"distilbert"`
	// Winning label for mutually-exclusive models.
	// example: Non-Hate Speech
	PredictedLabel string `json:"predicted_label,omitempty" example:"Non-Hate Speech"`
	// Score of the winning label.
	// example: 0.97
	Confidence float64 `json:"confidence,omitempty" example:"0.97"`
	// One entry per label in the model's label space.
	Scores []ClassScore `json:"scores"`
	// Labels whose score cleared the threshold (multi-label only).
	FlaggedCategories []string `json:"flagged_categories,omitempty"`
	// Whether any category fired (multi-label only).
	IsToxic *bool `json:"is_toxic,omitempty"`
	// False when scores are a non-calibrated proxy (e.g. squashed SVM margins).
	// example: true
	Calibrated bool `json:"calibrated" example:"true"`
	// Wall-clock time of tokenization + forward pass + post-processing.
	// example: 42.7
	InferenceTimeMs float64 `json:"inference_time_ms" example:"42.7"`
}

// SwitchRequest is the payload for POST /models/switch.
type SwitchRequest struct {
	// ID of the model to switch to.
	// example: logistic_regression
	ModelName string `json:"model_name" example:"logistic_regression"`
}

// DescribeResponse is returned by GET /models and POST /models/switch.
type DescribeResponse struct {
	// Currently loaded model id, empty when nothing is loaded.
	// example: distilbert
	CurrentModelID string `json:"current_model_id,omitempty" example:"distilbert"`
	// Catalog entries whose artifacts are present on disk right now.
	Available []ModelDescriptor `json:"available"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// "ok" when a model is loaded, "model_not_loaded" otherwise.
	// example: ok
	Status string `json:"status" example:"ok"`
	// Whether a model is currently loaded.
	// example: true
	Loaded bool `json:"loaded" example:"true"`
	// ID of the loaded model, empty when unloaded.
	// example: distilbert
	CurrentModelID string `json:"current_model_id,omitempty" example:"distilbert"`
	// Number of classes of the loaded model.
	// example: 2
	NumClasses int `json:"num_classes,omitempty" example:"2"`
	// Label space of the loaded model.
	Classes []string `json:"classes,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: unknown model: foo
	Error string `json:"error" example:"unknown model: foo"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
