package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable for an extraction run.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	return nil
}

// ValidateDescription checks only what the index command needs.
func (c *Config) ValidateDescription() error {
	if strings.TrimSpace(c.Paths.DescriptionPath) == "" {
		return missingPath("paths.description_path", "--description", "BANKRIP_DESCRIPTION")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.BankRoot) == "" {
		return missingPath("paths.bank_root", "--bank-root", "BANKRIP_BANK_ROOT")
	}
	if strings.TrimSpace(c.Paths.OutputRoot) == "" {
		return missingPath("paths.output_root", "--output-root", "BANKRIP_OUTPUT_ROOT")
	}
	if err := c.ValidateDescription(); err != nil {
		return err
	}
	if c.Paths.OutputRoot == c.Paths.BankRoot {
		return errors.New("paths.output_root must differ from paths.bank_root")
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if strings.ContainsAny(c.Extraction.BankName, `/\"`) {
		return errors.New("extraction.bank_name must be a plain file stem")
	}
	for key, ext := range map[string]string{
		"extraction.validated_extension": c.Extraction.ValidatedExtension,
		"extraction.raw_extension":       c.Extraction.RawExtension,
	} {
		if strings.ContainsAny(ext, `/\. `) {
			return fmt.Errorf("%s must not contain separators, dots or spaces", key)
		}
	}
	if c.Extraction.ValidatedExtension == c.Extraction.RawExtension {
		return errors.New("extraction.validated_extension and extraction.raw_extension must differ")
	}
	return nil
}

func (c *Config) validateManifest() error {
	if !c.Manifest.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Manifest.Path) == "" {
		return errors.New("manifest.path must be set when manifest.enabled is true")
	}
	if rel, err := filepath.Rel(c.Paths.OutputRoot, c.Manifest.Path); err == nil && !strings.HasPrefix(rel, "..") {
		return errors.New("manifest.path must live outside paths.output_root")
	}
	return nil
}

func missingPath(key, flag, env string) error {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("%s is required. Pass %s, set %s, or edit %s (create with 'bankrip config init')", key, flag, env, defaultPath)
}
