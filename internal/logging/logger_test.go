package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bankrip/internal/config"
	"bankrip/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	logger, err := logging.NewFromConfig(&cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")
	logger.Info("info message")

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Fatalf("expected debug to be filtered at info level, got %q", out)
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "info message") {
		t.Fatalf("expected info line, got %q", out)
	}
}

func TestConsoleLoggerLiftsComponentAndBank(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithBank(logging.WithRunID(context.Background(), "run-1"), "44100")
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "extractor"))
	logger.Warn("bank file missing", logging.String("path", "/tmp/a b/core.bytes"))

	out := buf.String()
	if !strings.Contains(out, "WARN  [44100] extractor: bank file missing") {
		t.Fatalf("unexpected console line: %q", out)
	}
	if !strings.Contains(out, `path="/tmp/a b/core.bytes"`) {
		t.Fatalf("expected quoted path attribute, got %q", out)
	}
	if strings.Contains(out, "run-1") {
		t.Fatalf("expected run id to be omitted from console output, got %q", out)
	}
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", out)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "console-debug.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithBank(logging.WithRunID(context.Background(), "run-42"), "24000")
	logging.WarnWithContext(logging.WithContext(ctx, logger), "sample salvaged", "entry_salvaged",
		logging.String(logging.FieldSample, "horn"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	checks := map[string]string{
		"level":                "warn",
		"msg":                  "sample salvaged",
		logging.FieldRunID:     "run-42",
		logging.FieldBank:      "24000",
		logging.FieldSample:    "horn",
		logging.FieldEventType: "entry_salvaged",
		logging.FieldErrorHint: "check logs for details",
		logging.FieldImpact:    "run completed with warnings",
	}
	for key, want := range checks {
		if got, _ := record[key].(string); got != want {
			t.Fatalf("field %s = %q, want %q", key, got, want)
		}
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts field, got %v", record)
	}
}

func TestErrorWithContextKeepsExplicitFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.ErrorWithContext(logger, "entry failed", "entry_failed",
		logging.Error(errors.New("boom")),
		logging.String(logging.FieldErrorHint, "inspect the description"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record[logging.FieldErrorHint] != "inspect the description" {
		t.Fatalf("explicit hint overwritten: %v", record)
	}
	if record["error"] != "boom" {
		t.Fatalf("expected error field, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "x")
	logger.Error("dropped")
	logging.WarnWithContext(nil, "dropped", "none")
}
