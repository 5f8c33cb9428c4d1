package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".config", "scrawl")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if want := filepath.Join(home, ".local", "share", "scrawl", "scrawl.db"); cfg.Database.Path != want {
		t.Errorf("database path = %q, want %q", cfg.Database.Path, want)
	}
	if want := filepath.Join(home, ".local", "share", "scrawl", "scrawl.log"); cfg.Log.Path != want {
		t.Errorf("log path = %q, want %q", cfg.Log.Path, want)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "info")
	}
	if !cfg.UI.StartMenu {
		t.Error("start_menu should default to true")
	}
	if !cfg.UI.Confirmations {
		t.Error("confirmations should default to true")
	}
	if cfg.UI.AutosaveMS != 100 {
		t.Errorf("autosave_ms = %d, want 100", cfg.UI.AutosaveMS)
	}
	if cfg.Export.Directory != "." {
		t.Errorf("export directory = %q, want %q", cfg.Export.Directory, ".")
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfigFile(t, home, `
[database]
path = "/tmp/elsewhere.db"

[ui]
start_menu = false
autosave_ms = 250
`)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Path != "/tmp/elsewhere.db" {
		t.Errorf("database path = %q, want %q", cfg.Database.Path, "/tmp/elsewhere.db")
	}
	if cfg.UI.StartMenu {
		t.Error("start_menu should be false from file")
	}
	if cfg.UI.AutosaveMS != 250 {
		t.Errorf("autosave_ms = %d, want 250", cfg.UI.AutosaveMS)
	}
	if !cfg.UI.Confirmations {
		t.Error("confirmations should keep its default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "info")
	}
}

func TestLoadConfigMalformedTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfigFile(t, home, `this is not valid toml [[[`)

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestLoadConfigFloorsAutosaveWindow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfigFile(t, home, `
[ui]
autosave_ms = -5
`)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.UI.AutosaveMS != 100 {
		t.Errorf("autosave_ms = %d, want floored to 100", cfg.UI.AutosaveMS)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg.UI.AutosaveMS = 40
	cfg.UI.Confirmations = false
	cfg.Log.Level = "debug"
	cfg.Export.Directory = "/tmp/exports"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".config", "scrawl", "config.toml")); err != nil {
		t.Fatalf("config.toml not written: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig after save: %v", err)
	}
	if got.UI.AutosaveMS != 40 {
		t.Errorf("autosave_ms = %d, want 40", got.UI.AutosaveMS)
	}
	if got.UI.Confirmations {
		t.Error("confirmations should round-trip as false")
	}
	if got.Log.Level != "debug" {
		t.Errorf("log level = %q, want %q", got.Log.Level, "debug")
	}
	if got.Export.Directory != "/tmp/exports" {
		t.Errorf("export directory = %q, want %q", got.Export.Directory, "/tmp/exports")
	}
}
