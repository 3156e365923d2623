package manager

import (
	"context"

	"github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP/internal/registry"
)

// Load resolves id, instantiates its backend, and swaps it in as the active
// model, releasing the previous backend. On any failure the manager keeps
// its prior state and the registry/backend error propagates unchanged.
func (m *Manager) Load(ctx context.Context, id string) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	return m.loadLocked(ctx, id)
}

// Switch is Load with a no-op fast path when id is already current. Neural
// loads take seconds, so redundant reloads are worth avoiding. The post-lock
// re-check also resolves concurrent duplicate switches: whoever waited on
// loadMu sees the winner's result and returns without a second load.
func (m *Manager) Switch(ctx context.Context, id string) error {
	if m.isCurrent(id) {
		return nil
	}
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	if m.isCurrent(id) {
		return nil
	}
	return m.loadLocked(ctx, id)
}

// Unload releases the active backend and returns the manager to the unloaded
// state. Exposed for resource hygiene: neural backends hold device memory
// that should be freed before loading another large model.
func (m *Manager) Unload() error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	m.mu.Lock()
	old := m.cur
	m.cur = nil
	m.mu.Unlock()
	if old == nil {
		return ErrNotLoaded()
	}
	return old.be.Close()
}

// Close releases resources at shutdown. Unlike Unload it is a no-op when
// nothing is loaded.
func (m *Manager) Close() error {
	if err := m.Unload(); err != nil && !IsNotLoaded(err) {
		return err
	}
	return nil
}

func (m *Manager) isCurrent(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur != nil && m.cur.desc.ID == id
}

// loadLocked performs the actual load. Caller holds loadMu; the expensive
// open runs outside the state lock so in-flight predictions against the old
// backend keep running until the swap.
func (m *Manager) loadLocked(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return registry.ErrUnknownModel("(unspecified)")
	}
	desc, err := m.reg.Resolve(id)
	if err != nil {
		return err
	}
	be, err := m.open(desc)
	if err != nil {
		return err
	}

	next := &loadedModel{desc: desc, be: be, labels: be.LabelSpace()}
	m.mu.Lock()
	old := m.cur
	m.cur = next
	// Closing under the write lock: no predict holds the old backend anymore.
	if old != nil {
		_ = old.be.Close()
	}
	m.mu.Unlock()
	return nil
}
