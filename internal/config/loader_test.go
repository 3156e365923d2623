package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nmodels_dir: /tmp\ndefault_model: distilbert\nthreshold: 0.7\nmax_text_len: 5000\nlog_level: debug\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.ModelsDir != "/tmp" || cfg.DefaultModel != "distilbert" || cfg.Threshold != 0.7 || cfg.MaxTextLen != 5000 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","models_dir":"/m","default_model":"toxicity","threshold":0.4,"max_text_len":256}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.ModelsDir != "/m" || cfg.DefaultModel != "toxicity" || cfg.Threshold != 0.4 || cfg.MaxTextLen != 256 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmodels_dir=\"/x\"\ndefault_model=\"linear_svm\"\nthreshold=0.5\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.ModelsDir != "/x" || cfg.DefaultModel != "linear_svm" || cfg.Threshold != 0.5 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadCatalogEntries(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", `addr: :8080
models:
  - id: custom
    kind: linear_pipeline
    artifact_path: /opt/models/custom.json
    description: site-local baseline
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Models) != 1 {
		t.Fatalf("expected 1 catalog entry, got %d", len(cfg.Models))
	}
	m := cfg.Models[0]
	if m.ID != "custom" || string(m.Kind) != "linear_pipeline" || m.ArtifactPath != "/opt/models/custom.json" {
		t.Fatalf("unexpected entry: %+v", m)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}
