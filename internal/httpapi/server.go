package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/backend"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/manager"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/registry"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Health() types.HealthResponse
	Describe() types.DescribeResponse
	Predict(ctx context.Context, text string) (types.PredictResponse, error)
	Switch(ctx context.Context, id string) error
	Ready() bool
}

// NewMux builds the router: health/listing endpoints, prediction, model
// switching, and the prometheus endpoint.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	// health godoc
	// @Summary  Health check
	// @Produce  json
	// @Success  200 {object} types.HealthResponse
	// @Router   /health [get]
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Health())
	})

	// models godoc
	// @Summary  Current model plus on-disk availability
	// @Produce  json
	// @Success  200 {object} types.DescribeResponse
	// @Router   /models [get]
	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Describe())
	})

	// predict godoc
	// @Summary  Classify a text with the loaded model
	// @Accept   json
	// @Produce  json
	// @Param    request body types.PredictRequest true "text to classify"
	// @Success  200 {object} types.PredictResponse
	// @Failure  400 {object} types.ErrorResponse
	// @Failure  503 {object} types.ErrorResponse
	// @Router   /predict [post]
	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		var req types.PredictRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		text := strings.TrimSpace(req.Text)
		if text == "" {
			writeJSONError(w, http.StatusBadRequest, "text is required")
			return
		}
		if maxTextLen > 0 && len(req.Text) > maxTextLen {
			writeJSONError(w, http.StatusBadRequest, "text exceeds maximum length")
			return
		}

		start := time.Now()
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		resp, err := svc.Predict(joinedCtx, text)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := predictionStatus(err)
			writeJSONError(w, status, err.Error())
			logRequest(r, "predict", status, time.Since(start), err)
			return
		}
		ObservePrediction(resp.ModelID, "ok", time.Since(start))
		writeJSON(w, http.StatusOK, resp)
		logRequest(r, "predict", http.StatusOK, time.Since(start), nil)
	})

	// switch godoc
	// @Summary  Switch the active model
	// @Accept   json
	// @Produce  json
	// @Param    request body types.SwitchRequest true "model to activate"
	// @Success  200 {object} types.DescribeResponse
	// @Failure  400 {object} types.ErrorResponse
	// @Failure  500 {object} types.ErrorResponse
	// @Router   /models/switch [post]
	r.Post("/models/switch", func(w http.ResponseWriter, r *http.Request) {
		var req types.SwitchRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.ModelName) == "" {
			writeJSONError(w, http.StatusBadRequest, "model_name is required")
			return
		}

		start := time.Now()
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.Switch(joinedCtx, req.ModelName); err != nil {
			status := switchStatus(err)
			ObserveModelLoad(req.ModelName, "error")
			writeJSONError(w, status, err.Error())
			logRequest(r, "switch", status, time.Since(start), err)
			return
		}
		ObserveModelLoad(req.ModelName, "ok")
		writeJSON(w, http.StatusOK, svc.Describe())
		logRequest(r, "switch", http.StatusOK, time.Since(start), nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no model loaded"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// predictionStatus maps manager/backend errors on the predict path.
func predictionStatus(err error) int {
	switch {
	case manager.IsNotLoaded(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// switchStatus maps registry/backend errors on the switch path. An unknown
// model name and untrained artifacts are both client-visible 400s; a corrupt
// or otherwise failed load is a server-side 500.
func switchStatus(err error) int {
	switch {
	case registry.IsUnknownModel(err):
		return http.StatusBadRequest
	case backend.IsArtifactMissing(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON enforces the JSON content type and body limit, writing the
// error response itself when decoding fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logError("encode response", err)
	}
}
