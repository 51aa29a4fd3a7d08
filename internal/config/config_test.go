package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Play.Width != nil || cfg.Rules.ComboCap != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigParsesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[play]
player = "mo"
width = 30
fall-every = "150ms"

[rules]
combo-window-ms = 800
combo-cap = 3

[serve]
port = "2323"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Play.Player == nil || *cfg.Play.Player != "mo" {
		t.Fatalf("unexpected player: %v", cfg.Play.Player)
	}
	if cfg.Play.Width == nil || *cfg.Play.Width != 30 {
		t.Fatalf("unexpected width: %v", cfg.Play.Width)
	}
	if cfg.Play.FallEvery == nil || *cfg.Play.FallEvery != "150ms" {
		t.Fatalf("unexpected fall-every: %v", cfg.Play.FallEvery)
	}
	if cfg.Rules.ComboWindowMs == nil || *cfg.Rules.ComboWindowMs != 800 {
		t.Fatalf("unexpected combo window: %v", cfg.Rules.ComboWindowMs)
	}
	if cfg.Rules.ComboBonus != nil {
		t.Fatalf("expected unset combo bonus")
	}
	if cfg.Serve.Port == nil || *cfg.Serve.Port != "2323" {
		t.Fatalf("unexpected port: %v", cfg.Serve.Port)
	}
}

func TestLoadConfigRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[play\nwidth = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	cat, err := LoadCatalog(filepath.Join(dir, "missing.yaml"), 4)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if cat.Len() != 16 || cat.Default() != 4 {
		t.Fatalf("expected built-in catalog with fallback 4, got len=%d default=%d", cat.Len(), cat.Default())
	}

	path := filepath.Join(dir, "catalog.yaml")
	data := "default: 3\nitems:\n  - id: \"🍣\"\n    value: 30\n  - id: \"🍙\"\n    value: 12\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cat, err = LoadCatalog(path, 10)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if cat.Len() != 2 || cat.Value("🍣") != 30 || cat.Value("🍟") != 3 {
		t.Fatalf("unexpected catalog contents: %+v", cat.Items())
	}
}

func TestLoadCatalogRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("items: []\n"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := LoadCatalog(path, 10); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SNACKTAP_TEST_VALUE", "set")
	if got := GetEnv("SNACKTAP_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("expected env value, got %q", got)
	}
	if got := GetEnv("SNACKTAP_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
