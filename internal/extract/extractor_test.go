package extract

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bankrip/internal/bankerr"
	"bankrip/internal/index"
	"bankrip/internal/logging"
)

func testBlob() []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, 10))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(4))
	buf.WriteString("fLaC")
	buf.WriteString("XYZ")
	return buf.Bytes()
}

func TestRunKeepsOrderAndIsolatesFailures(t *testing.T) {
	bank := &Bank{ID: index.Bank24000, Data: testBlob()}
	entries := []index.SampleEntry{
		{Name: "good", Offset: 10, Length: 11, Bank: index.Bank24000},
		{Name: "past_end", Offset: 100, Length: 4, Bank: index.Bank24000},
		{Name: "raw", Offset: 0, Length: 8, Bank: index.Bank24000},
	}

	var logs bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &logs})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	results, err := NewExtractor(logger).Run(context.Background(), bank, entries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []Kind{KindValidated, KindFailed, KindRawFallback}
	for i, res := range results {
		if res.Entry.Name != entries[i].Name {
			t.Fatalf("result %d out of order: %s", i, res.Entry.Name)
		}
		if res.Kind != want[i] {
			t.Fatalf("result %d kind = %v, want %v", i, res.Kind, want[i])
		}
	}
	if Count(results) != 1 {
		t.Fatalf("Count = %d, want 1", Count(results))
	}
	out := logs.String()
	if !strings.Contains(out, "sample skipped") || !strings.Contains(out, "sample=past_end") {
		t.Fatalf("expected skipped entry to be logged with its name, got %q", out)
	}
	if !strings.Contains(out, "keeping raw bytes") {
		t.Fatalf("expected raw fallback warning, got %q", out)
	}
}

func TestRunRecoversFromClassifierPanic(t *testing.T) {
	ex := NewExtractor(nil)
	ex.classify = func(blob []byte, e index.SampleEntry) Result {
		if e.Name == "boom" {
			var s []byte
			_ = s[e.Offset]
		}
		return Classify(blob, e)
	}
	bank := &Bank{ID: index.Bank48000, Data: testBlob()}
	entries := []index.SampleEntry{
		{Name: "boom", Offset: 3, Length: 1, Bank: index.Bank48000},
		{Name: "good", Offset: 10, Length: 11, Bank: index.Bank48000},
	}

	results, err := ex.Run(context.Background(), bank, entries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Kind != KindFailed || !errors.Is(results[0].Err, bankerr.ErrEntry) {
		t.Fatalf("expected recovered panic as entry failure, got %+v", results[0])
	}
	if !strings.Contains(results[0].Err.Error(), "boom") {
		t.Fatalf("expected entry name in error, got %v", results[0].Err)
	}
	if results[1].Kind != KindValidated {
		t.Fatalf("extraction must continue after a panic, got %v", results[1].Kind)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bank := &Bank{ID: index.Bank44100, Data: testBlob()}
	results, err := NewExtractor(nil).Run(ctx, bank, []index.SampleEntry{{Name: "a", Offset: 10, Length: 11}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results after cancel, got %d", len(results))
	}
}

func TestLoadBank(t *testing.T) {
	root := t.TempDir()
	path := BankPath(root, index.Bank44100, "core.bytes")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, testBlob(), 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}

	bank, err := LoadBank(root, index.Bank44100, "core.bytes")
	if err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	if bank.ID != index.Bank44100 || bank.Path != path || !bytes.Equal(bank.Data, testBlob()) {
		t.Fatalf("unexpected bank: %+v", bank)
	}

	_, err = LoadBank(root, index.Bank24000, "core.bytes")
	if !errors.Is(err, bankerr.ErrBankUnavailable) {
		t.Fatalf("expected bank unavailable, got %v", err)
	}
	if bankerr.Fatal(err) {
		t.Fatal("missing bank must not be fatal")
	}

	if err := os.MkdirAll(BankPath(root, index.Bank48000, "core.bytes"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := LoadBank(root, index.Bank48000, "core.bytes"); !errors.Is(err, bankerr.ErrBankUnavailable) {
		t.Fatalf("expected directory to be rejected, got %v", err)
	}
}
