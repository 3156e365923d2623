package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/pkg/types"
)

// tokenPattern matches words of two or more characters, the same convention
// the training pipeline's vectorizer uses.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// linearPipelineFile is the on-disk format exported by the training pipeline:
// a TF-IDF vectorizer plus a fitted linear model in a single JSON document.
type linearPipelineFile struct {
	Kind       string   `json:"kind"`
	Classes    []string `json:"classes"`
	Vectorizer struct {
		Vocabulary map[string]int `json:"vocabulary"`
		IDF        []float64      `json:"idf"`
		Lowercase  bool           `json:"lowercase"`
		NgramMin   int            `json:"ngram_min"`
		NgramMax   int            `json:"ngram_max"`
		SublinearTF bool          `json:"sublinear_tf"`
	} `json:"vectorizer"`
	Coef           [][]float64 `json:"coef"`
	Intercept      []float64   `json:"intercept"`
	HasProbability bool        `json:"has_probability"`
}

// Linear serves a TF-IDF + linear-model pipeline (logistic regression or
// linear SVM). When the pipeline lacks native probability output, scores are
// derived from the decision margin: a logistic squash for binary models and a
// softmax over the raw margins for multi-class. That proxy is monotonic but
// not calibrated, and Calibrated() reports it as such.
type Linear struct {
	desc     types.ModelDescriptor
	pipeline linearPipelineFile
}

func probeLinear(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return ErrArtifactMissing(path, "pipeline file not found")
	}
	if info.IsDir() {
		return ErrArtifactMissing(path, "pipeline path is a directory")
	}
	return nil
}

func openLinear(desc types.ModelDescriptor) (Backend, error) {
	if err := probeLinear(desc.ArtifactPath); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(desc.ArtifactPath)
	if err != nil {
		return nil, ErrArtifactMissing(desc.ArtifactPath, err.Error())
	}
	var p linearPipelineFile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, ErrArtifactCorrupt(desc.ArtifactPath, err)
	}
	if err := validatePipeline(p); err != nil {
		return nil, ErrArtifactCorrupt(desc.ArtifactPath, err)
	}
	return &Linear{desc: desc, pipeline: p}, nil
}

func validatePipeline(p linearPipelineFile) error {
	if len(p.Classes) < 2 {
		return fmt.Errorf("pipeline has %d classes, need at least 2", len(p.Classes))
	}
	if len(p.Vectorizer.Vocabulary) == 0 {
		return fmt.Errorf("pipeline vocabulary is empty")
	}
	nFeatures := len(p.Vectorizer.IDF)
	for term, idx := range p.Vectorizer.Vocabulary {
		if idx < 0 || idx >= nFeatures {
			return fmt.Errorf("vocabulary term %q maps outside idf table (%d features)", term, nFeatures)
		}
	}
	if len(p.Coef) == 0 || len(p.Coef) != len(p.Intercept) {
		return fmt.Errorf("coef rows (%d) and intercepts (%d) disagree", len(p.Coef), len(p.Intercept))
	}
	// Binary models carry a single decision row; multi-class one row per class.
	if len(p.Coef) != 1 && len(p.Coef) != len(p.Classes) {
		return fmt.Errorf("coef rows (%d) match neither 1 nor class count (%d)", len(p.Coef), len(p.Classes))
	}
	for i, row := range p.Coef {
		if len(row) != nFeatures {
			return fmt.Errorf("coef row %d has %d weights, vectorizer has %d features", i, len(row), nFeatures)
		}
	}
	return nil
}

func (l *Linear) Kind() types.BackendKind { return types.BackendLinearPipeline }

func (l *Linear) LabelSpace() []string {
	out := make([]string, len(l.pipeline.Classes))
	copy(out, l.pipeline.Classes)
	return out
}

func (l *Linear) Calibrated() bool { return l.pipeline.HasProbability }

func (l *Linear) Close() error { return nil }

// Infer vectorizes the text and scores it against the linear model. Empty
// input yields an all-zero feature vector, which still produces a structurally
// valid score per class (the intercept-only decision).
func (l *Linear) Infer(_ context.Context, text string) ([]float64, error) {
	features := l.vectorize(text)
	margins := make([]float64, len(l.pipeline.Coef))
	for i, row := range l.pipeline.Coef {
		d := l.pipeline.Intercept[i]
		for idx, v := range features {
			d += row[idx] * v
		}
		margins[i] = d
	}

	if len(margins) == 1 {
		// Binary: squash the single margin into a pair summing to 1.
		p := sigmoid(margins[0])
		return []float64{1 - p, p}, nil
	}
	return softmax(margins), nil
}

// vectorize computes the sparse L2-normalized TF-IDF vector for text.
func (l *Linear) vectorize(text string) map[int]float64 {
	v := l.pipeline.Vectorizer
	if v.Lowercase {
		text = strings.ToLower(text)
	}
	words := tokenPattern.FindAllString(text, -1)

	ngramMin, ngramMax := v.NgramMin, v.NgramMax
	if ngramMin <= 0 {
		ngramMin = 1
	}
	if ngramMax < ngramMin {
		ngramMax = ngramMin
	}

	counts := make(map[int]float64)
	for n := ngramMin; n <= ngramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			gram := strings.Join(words[i:i+n], " ")
			if idx, ok := v.Vocabulary[gram]; ok {
				counts[idx]++
			}
		}
	}

	var norm float64
	for idx, tf := range counts {
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		w := tf * v.IDF[idx]
		counts[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range counts {
			counts[idx] /= norm
		}
	}
	return counts
}
