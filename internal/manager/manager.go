package manager

import (
	"sync"

	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/backend"
	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/pkg/types"
)

const defaultThreshold = 0.5

// Registry is the catalog view the manager consumes.
type Registry interface {
	ListAvailable() []types.ModelDescriptor
	Resolve(id string) (types.ModelDescriptor, error)
}

// OpenFunc instantiates the backend for a resolved descriptor. Injected so
// tests can substitute fakes; production wiring passes backend.Open.
type OpenFunc func(types.ModelDescriptor) (backend.Backend, error)

// loadedModel pairs a backend instance with the descriptor it was loaded
// from and its label space, captured once at load time.
type loadedModel struct {
	desc   types.ModelDescriptor
	be     backend.Backend
	labels []string
}

// Manager owns at most one loaded backend at a time and mediates between the
// registry and the prediction backends. Load/Switch replace the active
// backend under the write lock; Predict holds the read lock for its whole
// duration so it never observes a half-built backend. loadMu serializes
// loads so two concurrent switches to the same id never deserialize the
// artifacts twice: the second caller waits, re-checks, and hits the no-op
// fast path.
type Manager struct {
	reg       Registry
	open      OpenFunc
	threshold float64

	loadMu sync.Mutex
	mu     sync.RWMutex
	cur    *loadedModel
}

// Config carries the manager's collaborators and tuning.
type Config struct {
	Registry  Registry
	Open      OpenFunc
	Threshold float64
}

// New constructs an unloaded manager. A zero Threshold selects the default
// multi-label decision threshold of 0.5; Open defaults to backend.Open.
func New(cfg Config) *Manager {
	if cfg.Open == nil {
		cfg.Open = backend.Open
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = defaultThreshold
	}
	return &Manager{reg: cfg.Registry, open: cfg.Open, threshold: cfg.Threshold}
}

// Ready reports whether a model is loaded and able to serve predictions.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur != nil
}

// CurrentID returns the loaded model id, or "" when unloaded.
func (m *Manager) CurrentID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cur == nil {
		return ""
	}
	return m.cur.desc.ID
}

// Describe reports the current model plus a fresh on-disk availability
// listing, so models trained after startup show up without a restart.
func (m *Manager) Describe() types.DescribeResponse {
	resp := types.DescribeResponse{Available: m.reg.ListAvailable()}
	m.mu.RLock()
	if m.cur != nil {
		resp.CurrentModelID = m.cur.desc.ID
	}
	m.mu.RUnlock()
	return resp
}

// Health builds the /health payload.
func (m *Manager) Health() types.HealthResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cur == nil {
		return types.HealthResponse{Status: "model_not_loaded"}
	}
	classes := make([]string, len(m.cur.labels))
	copy(classes, m.cur.labels)
	return types.HealthResponse{
		Status:         "ok",
		Loaded:         true,
		CurrentModelID: m.cur.desc.ID,
		NumClasses:     len(classes),
		Classes:        classes,
	}
}
