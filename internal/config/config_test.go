package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Rotation.Hot != 100 {
		t.Errorf("expected default hot threshold 100, got %d", cfg.Rotation.Hot)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tierstore.yaml")
	data := `
db_path: /tmp/test.db
rotation:
  hot: 5
  warm: 10
  cold: 20
rotation_per_bank:
  personal:
    hot: 2
    warm: 4
    cold: 8
wm:
  persist: true
  default_ttl: 60
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("db_path = %q", cfg.DBPath)
	}
	if cfg.Rotation.Hot != 5 {
		t.Errorf("hot = %d, want 5", cfg.Rotation.Hot)
	}
	if !cfg.WM.Persist {
		t.Error("expected wm.persist true")
	}
	if cfg.WM.DefaultTTL != 60 {
		t.Errorf("default_ttl = %d, want 60", cfg.WM.DefaultTTL)
	}
}

func TestThresholdsForOverride(t *testing.T) {
	cfg := Default()
	cfg.Rotation = Thresholds{Hot: 100, Warm: 500, Cold: 2000}
	cfg.RotationPerBank = map[string]Thresholds{
		"personal": {Hot: 10, Warm: 20, Cold: 40},
	}

	got := cfg.ThresholdsFor("personal")
	if got.Hot != 10 {
		t.Errorf("expected per-bank hot 10, got %d", got.Hot)
	}
	got = cfg.ThresholdsFor("factual")
	if got.Hot != 100 {
		t.Errorf("expected global hot 100, got %d", got.Hot)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("rotation: [not a map"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
