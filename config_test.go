package dungeonmark

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testConfigTOML = `
[journal]
title = "Monster Compendium"
authors = ["A. Keeper"]
description = "A bestiary."
source = "./entries"

[build]
build-dir = "out"

[[build.renderers]]
name = "html"
command = "render-html --strict"

[markdown]
smart-punctuation = true
`

func TestParseConfig_TOML(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte(testConfigTOML), ".toml")
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}

	wantJournal := JournalConfig{
		Title:       "Monster Compendium",
		Authors:     []string{"A. Keeper"},
		Description: "A bestiary.",
		Source:      "./entries",
	}
	if diff := cmp.Diff(wantJournal, cfg.Journal); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}

	wantBuild := BuildConfig{
		BuildDir:  "out",
		Renderers: []RendererConfig{{Name: "html", Command: "render-html --strict"}},
	}
	if diff := cmp.Diff(wantBuild, cfg.Build); diff != "" {
		t.Errorf("build mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfig_YAML(t *testing.T) {
	t.Parallel()

	source := `
journal:
  title: Monster Compendium
  source: ./entries
build:
  build-dir: out
  renderers:
    - name: html
`
	cfg, err := ParseConfig([]byte(source), ".yaml")
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}

	if cfg.Journal.Title != "Monster Compendium" {
		t.Errorf("Title = %q", cfg.Journal.Title)
	}
	if cfg.Journal.Source != "./entries" {
		t.Errorf("Source = %q", cfg.Journal.Source)
	}
	if cfg.Build.BuildDir != "out" {
		t.Errorf("BuildDir = %q", cfg.Build.BuildDir)
	}
	if len(cfg.Build.Renderers) != 1 || cfg.Build.Renderers[0].Name != "html" {
		t.Errorf("Renderers = %v", cfg.Build.Renderers)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
	}{
		{name: "empty document", source: ""},
		{name: "sections without directories", source: "[journal]\ntitle = \"T\"\n\n[build]\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := ParseConfig([]byte(tt.source), ".toml")
			if err != nil {
				t.Fatalf("ParseConfig() error: %v", err)
			}
			if cfg.Journal.Source != "./src" {
				t.Errorf("Source = %q, want %q", cfg.Journal.Source, "./src")
			}
			if cfg.Build.BuildDir != "build" {
				t.Errorf("BuildDir = %q, want %q", cfg.Build.BuildDir, "build")
			}
		})
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := ParseConfig([]byte("journal = ["), ".toml"); err == nil {
		t.Error("malformed TOML accepted")
	}
	if _, err := ParseConfig([]byte("[journal]\ntitle = 42\nauthors = \"not a list\"\n"), ".toml"); err == nil {
		t.Error("mistyped journal section accepted")
	}
}

func TestConfig_Get(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte(testConfigTOML), ".toml")
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}

	var markdown struct {
		SmartPunctuation bool `json:"smart-punctuation"`
	}
	if err := cfg.Get("markdown", &markdown); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !markdown.SmartPunctuation {
		t.Error("smart-punctuation not decoded")
	}

	// Missing keys leave the destination at its zero value.
	var missing struct{ Anything string }
	if err := cfg.Get("no-such-key", &missing); err != nil {
		t.Errorf("Get() on missing key: %v", err)
	}
	if missing.Anything != "" {
		t.Errorf("missing key wrote %q", missing.Anything)
	}

	// Mismatched shapes are reported.
	var wrong string
	if err := cfg.Get("markdown", &wrong); !errors.Is(err, ErrConfigKey) {
		t.Errorf("error = %v, want ErrConfigKey", err)
	}
}

func TestConfig_GetOnDefaults(t *testing.T) {
	t.Parallel()

	var out map[string]any
	if err := DefaultConfig().Get("anything", &out); err != nil {
		t.Errorf("Get() error: %v", err)
	}
	if out != nil {
		t.Errorf("Get() wrote %v", out)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "journal.toml"), []byte(testConfigTOML), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Journal.Title != "Monster Compendium" {
		t.Errorf("Title = %q", cfg.Journal.Title)
	}
}

func TestLoadConfig_ProbesYAML(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "journal.yaml"), []byte("journal:\n  title: Yaml Journal\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Journal.Title != "Yaml Journal" {
		t.Errorf("Title = %q, want %q", cfg.Journal.Title, "Yaml Journal")
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(t.TempDir()); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigFile_ParseErrorNamed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "journal.toml")
	if err := os.WriteFile(path, []byte("journal = ["), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfigFile(path); !errors.Is(err, ErrConfigParse) {
		t.Errorf("error = %v, want ErrConfigParse", err)
	}
}

func TestConfig_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte(testConfigTOML), ".toml")
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	// The opaque rest keys are flattened beside the typed sections.
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"journal", "build", "markdown"} {
		if _, ok := flat[key]; !ok {
			t.Errorf("marshaled config is missing %q", key)
		}
	}

	var decoded Config
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if diff := cmp.Diff(cfg.Journal, decoded.Journal); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(cfg.Build, decoded.Build); diff != "" {
		t.Errorf("build mismatch (-want +got):\n%s", diff)
	}

	var markdown map[string]any
	if err := decoded.Get("markdown", &markdown); err != nil {
		t.Fatalf("Get() after round trip: %v", err)
	}
	if v, ok := markdown["smart-punctuation"].(bool); !ok || !v {
		t.Errorf("smart-punctuation = %v after round trip", markdown["smart-punctuation"])
	}
}
