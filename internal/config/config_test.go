package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.IndexPath != "TOKS" {
		t.Errorf("IndexPath = %q, want %q", cfg.IndexPath, "TOKS")
	}
	if cfg.LogFormat != "human" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "human")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.SeverityMask != "A" {
		t.Errorf("SeverityMask = %q, want %q", cfg.SeverityMask, "A")
	}
	if cfg.ShowSeverity {
		t.Error("ShowSeverity should default to false")
	}
	if cfg.DefaultLanguage != "C" {
		t.Errorf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "C")
	}
	if cfg.LangProfile != "" {
		t.Errorf("LangProfile = %q, want empty", cfg.LangProfile)
	}
}

func TestLoadNoFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Load() with no file = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadReadsTomlFile(t *testing.T) {
	dir := t.TempDir()
	content := `
indexPath = "build/index.db"
logFormat = "json"
logLevel = "debug"
severityMask = "0-2,20-23"
showSeverity = true
defaultLanguage = "CPP"
langProfile = "project.langprofile.yaml"
`
	if err := os.WriteFile(filepath.Join(dir, ".toks.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.IndexPath != "build/index.db" {
		t.Errorf("IndexPath = %q, want %q", cfg.IndexPath, "build/index.db")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
	if cfg.SeverityMask != "0-2,20-23" {
		t.Errorf("SeverityMask = %q, want %q", cfg.SeverityMask, "0-2,20-23")
	}
	if !cfg.ShowSeverity {
		t.Error("ShowSeverity should be true")
	}
	if cfg.DefaultLanguage != "CPP" {
		t.Errorf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "CPP")
	}
	if cfg.LangProfile != "project.langprofile.yaml" {
		t.Errorf("LangProfile = %q, want %q", cfg.LangProfile, "project.langprofile.yaml")
	}
}

func TestLoadPartialFileFillsRemainingDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `logLevel = "warn"`
	if err := os.WriteFile(filepath.Join(dir, ".toks.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
	if cfg.IndexPath != "TOKS" {
		t.Errorf("IndexPath = %q, want default %q", cfg.IndexPath, "TOKS")
	}
}
