package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) applyEnv() {
	if strings.TrimSpace(c.Paths.BankRoot) == "" {
		if value, ok := os.LookupEnv("BANKRIP_BANK_ROOT"); ok {
			c.Paths.BankRoot = value
		}
	}
	if strings.TrimSpace(c.Paths.OutputRoot) == "" {
		if value, ok := os.LookupEnv("BANKRIP_OUTPUT_ROOT"); ok {
			c.Paths.OutputRoot = value
		}
	}
	if strings.TrimSpace(c.Paths.DescriptionPath) == "" {
		if value, ok := os.LookupEnv("BANKRIP_DESCRIPTION"); ok {
			c.Paths.DescriptionPath = value
		}
	}
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtraction()
	if err := c.normalizeManifest(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.BankRoot, err = expandPath(strings.TrimSpace(c.Paths.BankRoot)); err != nil {
		return fmt.Errorf("paths.bank_root: %w", err)
	}
	if c.Paths.OutputRoot, err = expandPath(strings.TrimSpace(c.Paths.OutputRoot)); err != nil {
		return fmt.Errorf("paths.output_root: %w", err)
	}
	if c.Paths.DescriptionPath, err = expandPath(strings.TrimSpace(c.Paths.DescriptionPath)); err != nil {
		return fmt.Errorf("paths.description_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExtraction() {
	c.Extraction.BankName = strings.TrimSpace(c.Extraction.BankName)
	if c.Extraction.BankName == "" {
		c.Extraction.BankName = defaultBankName
	}
	c.Extraction.ValidatedExtension = normalizeExtension(c.Extraction.ValidatedExtension, defaultValidatedExtension)
	c.Extraction.RawExtension = normalizeExtension(c.Extraction.RawExtension, defaultRawExtension)
}

func normalizeExtension(value, fallback string) string {
	value = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), "."))
	if value == "" {
		return fallback
	}
	return value
}

func (c *Config) normalizeManifest() error {
	var err error
	if strings.TrimSpace(c.Manifest.Path) == "" {
		c.Manifest.Path = filepath.Join(c.Paths.StateDir, defaultManifestFile)
	}
	if c.Manifest.Path, err = expandPath(c.Manifest.Path); err != nil {
		return fmt.Errorf("manifest.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
