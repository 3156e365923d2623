package manager

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/backend"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/pkg/types"
)

// Predict runs the active backend on text and shapes the result. The timing
// window covers tokenization, the forward pass, and post-processing, so
// inference_time_ms is comparable across backends. The read lock is held for
// the whole call: a switch completing before Predict starts is observed in
// full, a switch arriving mid-flight waits, and the result is tagged with the
// model id that actually served it.
func (m *Manager) Predict(ctx context.Context, text string) (types.PredictResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cur := m.cur
	if cur == nil {
		return types.PredictResponse{}, ErrNotLoaded()
	}

	start := time.Now()
	raw, err := cur.be.Infer(ctx, text)
	if err != nil {
		if !backend.IsInference(err) {
			err = backend.ErrInference(err)
		}
		return types.PredictResponse{}, err
	}
	if len(raw) != len(cur.labels) {
		return types.PredictResponse{}, backend.ErrInference(
			fmt.Errorf("backend returned %d scores for %d labels", len(raw), len(cur.labels)))
	}

	var resp types.PredictResponse
	if cur.desc.Kind.MultiLabel() {
		resp = m.shapeMultiLabel(cur, raw)
	} else {
		resp = shapeSingleLabel(cur, raw)
	}
	resp.InferenceTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	return resp, nil
}

// shapeSingleLabel sorts scores strictly descending so consumers can show a
// top-k without re-sorting; the winner is the first entry.
func shapeSingleLabel(cur *loadedModel, raw []float64) types.PredictResponse {
	scores := make([]types.ClassScore, len(raw))
	for i, s := range raw {
		scores[i] = types.ClassScore{Label: cur.labels[i], Score: s}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return types.PredictResponse{
		ModelID:        cur.desc.ID,
		PredictedLabel: scores[0].Label,
		Confidence:     scores[0].Score,
		Scores:         scores,
		Calibrated:     cur.be.Calibrated(),
	}
}

// shapeMultiLabel keeps the fixed label order so category positions stay
// stable across requests, and flags each category against the threshold.
func (m *Manager) shapeMultiLabel(cur *loadedModel, raw []float64) types.PredictResponse {
	scores := make([]types.ClassScore, len(raw))
	flagged := make([]string, 0, len(raw))
	for i, s := range raw {
		hit := s >= m.threshold
		scores[i] = types.ClassScore{Label: cur.labels[i], Score: s, Flagged: hit}
		if hit {
			flagged = append(flagged, cur.labels[i])
		}
	}
	isToxic := len(flagged) > 0
	return types.PredictResponse{
		ModelID:           cur.desc.ID,
		Scores:            scores,
		FlaggedCategories: flagged,
		IsToxic:           &isToxic,
		Calibrated:        cur.be.Calibrated(),
	}
}
