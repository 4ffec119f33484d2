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

// Paths contains the input and output locations of an extraction run.
type Paths struct {
	BankRoot        string `toml:"bank_root"`
	OutputRoot      string `toml:"output_root"`
	DescriptionPath string `toml:"description_path"`
	StateDir        string `toml:"state_dir"`
}

// Extraction contains naming conventions for bank files and recovered payloads.
type Extraction struct {
	BankName           string `toml:"bank_name"`
	ValidatedExtension string `toml:"validated_extension"`
	RawExtension       string `toml:"raw_extension"`
}

// Manifest contains configuration for the run history database.
type Manifest struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Default: <state_dir>/manifest.db
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for bankrip.
//
// Configuration sections:
//   - Paths: bank root, output root, description source, state directory
//   - Extraction: bank file name and output file roles
//   - Manifest: SQLite run history
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Extraction Extraction `toml:"extraction"`
	Manifest   Manifest   `toml:"manifest"`
	Logging    Logging    `toml:"logging"`
}

// Option adjusts a configuration after the file is decoded and before it is
// normalized. CLI flags use it to take precedence over file values.
type Option func(*Config)

// WithBankRoot overrides paths.bank_root when value is non-empty.
func WithBankRoot(value string) Option {
	return func(c *Config) {
		if v := strings.TrimSpace(value); v != "" {
			c.Paths.BankRoot = v
		}
	}
}

// WithOutputRoot overrides paths.output_root when value is non-empty.
func WithOutputRoot(value string) Option {
	return func(c *Config) {
		if v := strings.TrimSpace(value); v != "" {
			c.Paths.OutputRoot = v
		}
	}
}

// WithDescriptionPath overrides paths.description_path when value is non-empty.
func WithDescriptionPath(value string) Option {
	return func(c *Config) {
		if v := strings.TrimSpace(value); v != "" {
			c.Paths.DescriptionPath = v
		}
	}
}

// WithLogging overrides the logging level and format when non-empty.
func WithLogging(level, format string) Option {
	return func(c *Config) {
		if v := strings.TrimSpace(level); v != "" {
			c.Logging.Level = v
		}
		if v := strings.TrimSpace(format); v != "" {
			c.Logging.Format = v
		}
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and normalizes a configuration file, then applies opts.
// The returned config has all path fields expanded. Load does not call Validate
// so commands that only need part of the configuration can still run.
func Load(path string, opts ...Option) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("bankrip.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories an extraction run writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputRoot, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// BankFileName returns the file name of a bank blob inside its rate directory.
func (c *Config) BankFileName() string {
	return c.Extraction.BankName + ".bytes"
}

func expandPath(pathValue string) (string, error) {
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
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
