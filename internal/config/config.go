package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Filename is the reserved configuration filename inside a target
// directory. Entries with this name are never treated as candidates.
const Filename = "sheaf.toml"

// Mode selects the filesystem action used when placing a file.
type Mode string

const (
	ModeMove Mode = "move"
	ModeCopy Mode = "copy"
)

// Logging controls the operator log stream (not the action log).
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// History controls the run-history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config holds the grouping policy for one pass plus ambient settings.
// It is constructed once per run and never mutated afterwards.
type Config struct {
	Delimiter      string `toml:"delimiter"`
	UseRegex       bool   `toml:"use_regex"`
	RegexPattern   string `toml:"regex_pattern"`
	Mode           Mode   `toml:"mode"`
	SkipIfNoPrefix bool   `toml:"skip_if_no_prefix"`
	NormalizeKeys  bool   `toml:"normalize_keys"`

	Logging Logging `toml:"logging"`
	History History `toml:"history"`
}

// Load reads the configuration at path and merges it over the defaults.
// Unknown keys are ignored. A missing file yields pure defaults. A file
// that cannot be read or parsed also yields pure defaults, with a
// diagnostic describing what was recovered from; Load never fails a run.
func Load(path string) (*Config, string) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.normalize()
			return &cfg, ""
		}
		cfg.normalize()
		return &cfg, fmt.Sprintf("config %s unreadable, using defaults: %v", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		cfg = Default()
		cfg.normalize()
		return &cfg, fmt.Sprintf("config %s malformed, using defaults: %v", path, err)
	}

	cfg.normalize()
	return &cfg, ""
}

// CreateSample writes the sample configuration template to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureSample writes the sample template to path when no file exists
// there yet. It reports whether a file was written.
func EnsureSample(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("check config path: %w", err)
	}
	if err := CreateSample(path); err != nil {
		return false, err
	}
	return true, nil
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
