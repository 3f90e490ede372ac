package dungeonmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mr-Byte/dungeon-mark/internal/confutil"
)

// Config file names probed in order at the project root.
var configFileNames = []string{"journal.toml", "journal.yaml", "journal.yml"}

// Config holds the journal configuration plus an opaque bag of any
// unrecognized top-level keys, kept for preprocessors, transformers, and
// renderers to query by key.
type Config struct {
	// Journal configures the compendium itself.
	Journal JournalConfig

	// Build configures the build process.
	Build BuildConfig

	rest map[string]any
}

// JournalConfig configures the compendium itself.
type JournalConfig struct {
	// Title is the optional title of the compendium.
	Title string `json:"title,omitempty"`

	// Authors lists the compendium authors.
	Authors []string `json:"authors,omitempty"`

	// Description optionally describes the compendium.
	Description string `json:"description,omitempty"`

	// Source is the path of the compendium source directory, relative to
	// the project root.
	Source string `json:"source"`
}

// BuildConfig configures the build process.
type BuildConfig struct {
	// BuildDir is the output root, relative to the project root. Each
	// renderer receives its own subdirectory under it.
	BuildDir string `json:"build-dir"`

	// Renderers lists the renderers to run, in order.
	Renderers []RendererConfig `json:"renderers,omitempty"`
}

// RendererConfig names one external renderer.
type RendererConfig struct {
	Name string `json:"name"`

	// Command is the shell-style command to run. When empty, the renderer
	// name is used as the command.
	Command string `json:"command,omitempty"`
}

// DefaultConfig returns a configuration with the default source and build
// directories and no renderers.
func DefaultConfig() *Config {
	return &Config{
		Journal: JournalConfig{Source: "./src"},
		Build:   BuildConfig{BuildDir: "build"},
	}
}

// LoadConfig loads the journal configuration from the project root, probing
// journal.toml then its YAML variants. A missing config file is an error;
// there is no silent fallback to defaults.
func LoadConfig(root string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return LoadConfigFile(path)
		}
	}

	return nil, fmt.Errorf("%w: tried %s in %s", ErrConfigNotFound, strings.Join(configFileNames, ", "), root)
}

// LoadConfigFile loads the journal configuration from an explicit file
// path. The encoding is chosen by extension: .yaml/.yml is YAML, anything
// else TOML.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	return cfg, nil
}

// ParseConfig decodes configuration data. The ext selects the encoding the
// way LoadConfigFile does.
func ParseConfig(data []byte, ext string) (*Config, error) {
	raw := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return fromRaw(raw)
	}

	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = confutil.UnmarshalYAML(data, &raw)
	default:
		err = confutil.UnmarshalTOML(data, &raw)
	}
	if err != nil {
		return nil, err
	}

	return fromRaw(raw)
}

// Get decodes the unrecognized top-level key into out. A missing key leaves
// out at its zero value and reports no error; a present key that cannot be
// decoded to out's shape is a configuration error.
func (c *Config) Get(key string, out any) error {
	if c.rest == nil {
		return nil
	}
	value, ok := c.rest[key]
	if !ok {
		return nil
	}
	if err := reencode(value, out); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrConfigKey, key, err)
	}
	return nil
}

// MarshalJSON flattens the typed sections and the opaque rest into a single
// object, the shape renderers receive.
func (c *Config) MarshalJSON() ([]byte, error) {
	merged := make(map[string]any, len(c.rest)+2)
	for k, v := range c.rest {
		merged[k] = v
	}
	merged["journal"] = c.Journal
	merged["build"] = c.Build

	return json.Marshal(merged)
}

// UnmarshalJSON is the inverse of MarshalJSON, used by renderer-side
// consumers of the build payload.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return err
	}
	*c = *cfg

	return nil
}

func fromRaw(raw map[string]any) (*Config, error) {
	cfg := DefaultConfig()
	if journal, ok := raw["journal"]; ok {
		if err := reencode(journal, &cfg.Journal); err != nil {
			return nil, fmt.Errorf("decoding [journal]: %w", err)
		}
		delete(raw, "journal")
	}
	if build, ok := raw["build"]; ok {
		if err := reencode(build, &cfg.Build); err != nil {
			return nil, fmt.Errorf("decoding [build]: %w", err)
		}
		delete(raw, "build")
	}
	if cfg.Journal.Source == "" {
		cfg.Journal.Source = "./src"
	}
	if cfg.Build.BuildDir == "" {
		cfg.Build.BuildDir = "build"
	}
	cfg.rest = raw

	return cfg, nil
}

// reencode converts a decoded config value into a typed shape via a JSON
// round trip, which both supported encodings decode cleanly into.
func reencode(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
