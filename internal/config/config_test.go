package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subburn/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Style.FontSize != 24 {
		t.Fatalf("unexpected default font size: %d", cfg.Style.FontSize)
	}
	if cfg.Style.DefaultCueSecs != 5.0 {
		t.Fatalf("unexpected default cue duration: %f", cfg.Style.DefaultCueSecs)
	}
	if cfg.Transcript.Language != "en" {
		t.Fatalf("unexpected default language: %q", cfg.Transcript.Language)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[transcript]
language = "FR"

[style]
font_size = 32
anchor = "Top-Center"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be detected")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %s", resolved)
	}
	if cfg.Transcript.Language != "fr" {
		t.Fatalf("expected normalized language fr, got %q", cfg.Transcript.Language)
	}
	if cfg.Style.FontSize != 32 {
		t.Fatalf("expected font size override, got %d", cfg.Style.FontSize)
	}
	if cfg.Style.Anchor != "top-center" {
		t.Fatalf("expected normalized anchor, got %q", cfg.Style.Anchor)
	}
	if cfg.Style.FontColor != "white" {
		t.Fatalf("expected untouched default font color, got %q", cfg.Style.FontColor)
	}
}

func TestLoadRejectsBadAnchor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[style]\nanchor = \"middle\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected validation error for unsupported anchor")
	}
	if !strings.Contains(err.Error(), "anchor") {
		t.Fatalf("expected anchor in error, got %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, _, exists, err := config.Load(filepath.Join(dir, "absent.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for absent file")
	}
	if cfg.Tools.YtDlp != "yt-dlp" {
		t.Fatalf("expected default yt-dlp binary, got %q", cfg.Tools.YtDlp)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	expanded, err := config.ExpandPath("~/x/y")
	if err != nil {
		t.Fatalf("expand path: %v", err)
	}
	if expanded != filepath.Join(home, "x", "y") {
		t.Fatalf("unexpected expansion: %s", expanded)
	}
}

func TestCreateSampleParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}
