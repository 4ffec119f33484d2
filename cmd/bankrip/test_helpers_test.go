package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bankrip/internal/config"
	"bankrip/internal/index"
	"bankrip/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

// setupCLITestEnv writes a config file and a one-sample 24000 bank.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("BANKRIP_BANK_ROOT", "")
	t.Setenv("BANKRIP_OUTPUT_ROOT", "")
	t.Setenv("BANKRIP_DESCRIPTION", "")

	blob := &testsupport.Blob{}
	blob.Pad(10)
	at := blob.Record(testsupport.FLAC(32))
	testsupport.WriteBank(t, cfg, index.Bank24000, blob.Bytes())
	testsupport.WriteDescription(t, cfg,
		testsupport.BankDecl(24000),
		testsupport.SampleDecl("bell", at, 36),
	)

	configPath := filepath.Join(base, "bankrip.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nbank_root = %q\noutput_root = %q\ndescription_path = %q\nstate_dir = %q\n\n[manifest]\nenabled = %t\npath = %q\n",
		cfg.Paths.BankRoot,
		cfg.Paths.OutputRoot,
		cfg.Paths.DescriptionPath,
		cfg.Paths.StateDir,
		cfg.Manifest.Enabled,
		cfg.Manifest.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
