package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Overpass.URL == "" || cfg.Overpass.CacheDir == "" {
		t.Errorf("overpass defaults missing: %+v", cfg.Overpass)
	}
	if cfg.World.VerticesPerAgent != 100 {
		t.Errorf("VerticesPerAgent = %d, want 100", cfg.World.VerticesPerAgent)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	document := `{
		"server": {"addr": ":9090"},
		"world": {"vertices_per_agent": 25}
	}`
	if err := os.WriteFile(path, []byte(document), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.World.VerticesPerAgent != 25 {
		t.Errorf("VerticesPerAgent = %d, want 25", cfg.World.VerticesPerAgent)
	}
	// Untouched fields keep their defaults.
	if cfg.Overpass.TimeoutSeconds != 180 {
		t.Errorf("TimeoutSeconds = %d, want 180", cfg.Overpass.TimeoutSeconds)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server": {"addr": ":9090"}}`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("GEOWORLD_ADDR", ":7070")
	t.Setenv("GEOWORLD_OVERPASS_TIMEOUT", "30")
	t.Setenv("GEOWORLD_SIMPLIFY_THRESHOLD", "2.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", cfg.Server.Addr)
	}
	if cfg.Overpass.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.Overpass.TimeoutSeconds)
	}
	if cfg.World.SimplifyThreshold != 2.5 {
		t.Errorf("SimplifyThreshold = %v, want 2.5", cfg.World.SimplifyThreshold)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an invalid config file")
	}
}
