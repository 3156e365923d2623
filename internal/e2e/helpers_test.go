package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/httpapi"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/manager"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/registry"
)

// pipelineJSON is a tiny trained TF-IDF + linear model in the serialized
// pipeline format. Two features, one decision row, so the binary squash path
// is exercised end to end.
func pipelineJSON(hasProbability bool) []byte {
	doc := map[string]any{
		"kind":    "linear",
		"classes": []string{"Non-Hate Speech", "Hate Speech"},
		"vectorizer": map[string]any{
			"vocabulary":   map[string]int{"love": 0, "hate": 1},
			"idf":          []float64{1.0, 1.0},
			"lowercase":    true,
			"ngram_min":    1,
			"ngram_max":    1,
			"sublinear_tf": false,
		},
		"coef":            [][]float64{{-2.5, 2.5}},
		"intercept":       []float64{0.0},
		"has_probability": hasProbability,
	}
	b, _ := json.Marshal(doc)
	return b
}

// writeBaseline installs a pipeline fixture under the catalog's expected
// baselines path inside modelsDir.
func writeBaseline(t *testing.T, modelsDir, filename string, content []byte) {
	t.Helper()
	dir := filepath.Join(modelsDir, "baselines")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir baselines: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), content, 0o644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

// newServer wires the real registry, manager, and router over modelsDir.
func newServer(t *testing.T, modelsDir string) (*httptest.Server, *manager.Manager) {
	t.Helper()
	reg, err := registry.New(registry.DefaultCatalog(modelsDir))
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	mgr := manager.New(manager.Config{Registry: reg})
	t.Cleanup(func() { mgr.Close() })
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func decodeBody(t *testing.T, body []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
}
