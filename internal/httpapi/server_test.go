package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/backend"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/manager"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/registry"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/pkg/types"
)

// mockService implements Service with overridable behavior per test.
type mockService struct {
	health   types.HealthResponse
	describe types.DescribeResponse
	predict  func(ctx context.Context, text string) (types.PredictResponse, error)
	switchFn func(ctx context.Context, id string) error
	ready    bool
}

func (m *mockService) Health() types.HealthResponse     { return m.health }
func (m *mockService) Describe() types.DescribeResponse { return m.describe }
func (m *mockService) Ready() bool                      { return m.ready }

func (m *mockService) Predict(ctx context.Context, text string) (types.PredictResponse, error) {
	if m.predict != nil {
		return m.predict(ctx, text)
	}
	return types.PredictResponse{ModelID: "mock"}, nil
}

func (m *mockService) Switch(ctx context.Context, id string) error {
	if m.switchFn != nil {
		return m.switchFn(ctx, id)
	}
	return nil
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	svc := &mockService{health: types.HealthResponse{Status: "ok", Loaded: true, CurrentModelID: "distilbert", NumClasses: 2}}
	rr := doRequest(t, NewMux(svc), http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var got types.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "ok" || got.CurrentModelID != "distilbert" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestModelsEndpoint(t *testing.T) {
	svc := &mockService{describe: types.DescribeResponse{
		CurrentModelID: "m1",
		Available:      []types.ModelDescriptor{{ID: "m1", Kind: types.BackendLinearPipeline}},
	}}
	rr := doRequest(t, NewMux(svc), http.MethodGet, "/models", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var got types.DescribeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CurrentModelID != "m1" || len(got.Available) != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestPredictOK(t *testing.T) {
	svc := &mockService{predict: func(ctx context.Context, text string) (types.PredictResponse, error) {
		if text != "hello world" {
			t.Errorf("handler did not trim text: %q", text)
		}
		return types.PredictResponse{
			ModelID:        "m1",
			PredictedLabel: "pos",
			Confidence:     0.9,
			Scores:         []types.ClassScore{{Label: "pos", Score: 0.9}, {Label: "neg", Score: 0.1}},
			Calibrated:     true,
		}, nil
	}}
	rr := doRequest(t, NewMux(svc), http.MethodPost, "/predict", `{"text":"  hello world  "}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var got types.PredictResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ModelID != "m1" || got.PredictedLabel != "pos" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestPredictValidation(t *testing.T) {
	mux := NewMux(&mockService{})

	// Missing JSON content type.
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"text":"x"}`))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("no content type: status %d, want 415", rr.Code)
	}

	if rr := doRequest(t, mux, http.MethodPost, "/predict", `{"text":`); rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed JSON: status %d, want 400", rr.Code)
	}
	if rr := doRequest(t, mux, http.MethodPost, "/predict", `{"text":""}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("empty text: status %d, want 400", rr.Code)
	}
	if rr := doRequest(t, mux, http.MethodPost, "/predict", `{"text":"   "}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("blank text: status %d, want 400", rr.Code)
	}
}

func TestPredictMaxTextLen(t *testing.T) {
	SetMaxTextLen(8)
	t.Cleanup(func() { SetMaxTextLen(10000) })

	mux := NewMux(&mockService{})
	rr := doRequest(t, mux, http.MethodPost, "/predict", `{"text":"way past the configured limit"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("oversized text: status %d, want 400", rr.Code)
	}
	var e types.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Code != http.StatusBadRequest || !strings.Contains(e.Error, "maximum length") {
		t.Fatalf("unexpected error payload: %+v", e)
	}
}

func TestPredictErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not loaded", manager.ErrNotLoaded(), http.StatusServiceUnavailable},
		{"inference failure", backend.ErrInference(errors.New("onnx run: boom")), http.StatusInternalServerError},
		{"opaque failure", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		svc := &mockService{predict: func(context.Context, string) (types.PredictResponse, error) {
			return types.PredictResponse{}, c.err
		}}
		rr := doRequest(t, NewMux(svc), http.MethodPost, "/predict", `{"text":"x"}`)
		if rr.Code != c.want {
			t.Fatalf("%s: status %d, want %d", c.name, rr.Code, c.want)
		}
		var e types.ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
			t.Fatalf("%s: decode: %v", c.name, err)
		}
		if e.Code != c.want || e.Error == "" {
			t.Fatalf("%s: unexpected error payload: %+v", c.name, e)
		}
	}
}

func TestSwitchOK(t *testing.T) {
	var switched string
	svc := &mockService{
		describe: types.DescribeResponse{CurrentModelID: "m2"},
		switchFn: func(_ context.Context, id string) error {
			switched = id
			return nil
		},
	}
	rr := doRequest(t, NewMux(svc), http.MethodPost, "/models/switch", `{"model_name":"m2"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if switched != "m2" {
		t.Fatalf("service got %q", switched)
	}
	var got types.DescribeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CurrentModelID != "m2" {
		t.Fatalf("switch should answer with the fresh describe payload: %+v", got)
	}
}

func TestSwitchValidationAndErrorMapping(t *testing.T) {
	if rr := doRequest(t, NewMux(&mockService{}), http.MethodPost, "/models/switch", `{"model_name":" "}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("blank model_name: status %d, want 400", rr.Code)
	}

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown model", registry.ErrUnknownModel("nope"), http.StatusBadRequest},
		{"artifacts missing", backend.ErrArtifactMissing("/m/x", "not trained"), http.StatusBadRequest},
		{"artifacts corrupt", backend.ErrArtifactCorrupt("/m/x", errors.New("bad bytes")), http.StatusInternalServerError},
		{"opaque failure", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		svc := &mockService{switchFn: func(context.Context, string) error { return c.err }}
		rr := doRequest(t, NewMux(svc), http.MethodPost, "/models/switch", `{"model_name":"x"}`)
		if rr.Code != c.want {
			t.Fatalf("%s: status %d, want %d", c.name, rr.Code, c.want)
		}
	}
}

func TestHealthzAndReadyz(t *testing.T) {
	mux := NewMux(&mockService{ready: false})
	if rr := doRequest(t, mux, http.MethodGet, "/healthz", ""); rr.Code != http.StatusOK {
		t.Fatalf("/healthz status %d", rr.Code)
	}
	if rr := doRequest(t, mux, http.MethodGet, "/readyz", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("unready /readyz status %d, want 503", rr.Code)
	}

	mux = NewMux(&mockService{ready: true})
	if rr := doRequest(t, mux, http.MethodGet, "/readyz", ""); rr.Code != http.StatusOK {
		t.Fatalf("ready /readyz status %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rr := doRequest(t, NewMux(&mockService{}), http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "classifierd_http_requests_total") {
		t.Fatalf("metrics exposition missing request counter")
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := doRequest(t, NewMux(&mockService{}), http.MethodGet, "/health", "")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
}
