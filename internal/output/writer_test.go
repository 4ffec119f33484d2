package output_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bankrip/internal/bankerr"
	"bankrip/internal/extract"
	"bankrip/internal/index"
	"bankrip/internal/output"
)

func result(name string, kind extract.Kind, payload string) extract.Result {
	return extract.Result{
		Entry:   index.SampleEntry{Name: name, Bank: index.Bank44100},
		Kind:    kind,
		Payload: []byte(payload),
	}
}

func TestCleanRemovesStaleFilesOnly(t *testing.T) {
	root := t.TempDir()
	w := output.NewWriter(root, "flac", "raw", nil)
	dir := w.Dir(index.Bank44100)

	if err := os.MkdirAll(filepath.Join(dir, "keep"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"old.flac", "old.raw", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("stale"), 0o644); err != nil {
			t.Fatalf("write stale: %v", err)
		}
	}

	removed, err := w.Clean(index.Bank44100)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "keep" {
		t.Fatalf("expected only sub-directory to survive, got %v", entries)
	}
}

func TestCleanMissingDirectoryIsNotAnError(t *testing.T) {
	w := output.NewWriter(filepath.Join(t.TempDir(), "absent"), "flac", "raw", nil)
	removed, err := w.Clean(index.Bank24000)
	if err != nil || removed != 0 {
		t.Fatalf("Clean on missing dir = %d, %v", removed, err)
	}
	if _, err := os.Stat(w.Dir(index.Bank24000)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Clean must not create the directory, stat err = %v", err)
	}
}

func TestWriteUsesRoleExtensions(t *testing.T) {
	root := t.TempDir()
	w := output.NewWriter(root, "flac", "raw", nil)
	if err := w.Ensure(index.Bank44100); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	cases := []struct {
		res  extract.Result
		want string
	}{
		{result("horn", extract.KindValidated, "fLaC1"), "horn.flac"},
		{result("click", extract.KindSalvaged, "fLaC2"), "click.flac"},
		{result("noise", extract.KindRawFallback, "????"), "noise.raw"},
	}
	for _, tc := range cases {
		path, err := w.Write(tc.res)
		if err != nil {
			t.Fatalf("Write %s: %v", tc.res.Entry.Name, err)
		}
		if path != filepath.Join(root, "44100", tc.want) {
			t.Fatalf("path = %q, want %s", path, tc.want)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(data) != string(tc.res.Payload) {
			t.Fatalf("%s content = %q, want %q", tc.want, data, tc.res.Payload)
		}
	}
}

func TestWriteOverwritesDuplicateNames(t *testing.T) {
	w := output.NewWriter(t.TempDir(), "flac", "raw", nil)
	if err := w.Ensure(index.Bank44100); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if _, err := w.Write(result("dup", extract.KindValidated, "first")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	path, err := w.Write(result("dup", extract.KindValidated, "second"))
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "second" {
		t.Fatalf("expected later duplicate to win, got %q", data)
	}
}

func TestWriteFailedResult(t *testing.T) {
	w := output.NewWriter(t.TempDir(), "flac", "raw", nil)
	_, err := w.Write(result("gone", extract.KindFailed, ""))
	if !errors.Is(err, bankerr.ErrNothingToWrite) {
		t.Fatalf("expected nothing-to-write error, got %v", err)
	}
}

func TestWriteKeepsNamesInsideBankDirectory(t *testing.T) {
	root := t.TempDir()
	w := output.NewWriter(root, "flac", "raw", nil)
	if err := w.Ensure(index.Bank44100); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	path, err := w.Write(result(`..\..\escape`, extract.KindValidated, "fLaC"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Dir(path) != w.Dir(index.Bank44100) {
		t.Fatalf("sample escaped bank directory: %s", path)
	}
	if filepath.Base(path) != "-..-escape.flac" {
		t.Fatalf("unexpected file name: %s", path)
	}
}

func TestWriteKeepsDirectoryPartOfNames(t *testing.T) {
	w := output.NewWriter(t.TempDir(), "flac", "raw", nil)
	if err := w.Ensure(index.Bank44100); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	sfx, err := w.Write(result("sfx/click", extract.KindValidated, "fLaC-sfx"))
	if err != nil {
		t.Fatalf("Write sfx: %v", err)
	}
	ui, err := w.Write(result("ui/click", extract.KindValidated, "fLaC-ui"))
	if err != nil {
		t.Fatalf("Write ui: %v", err)
	}
	if filepath.Base(sfx) != "sfx-click.flac" || filepath.Base(ui) != "ui-click.flac" {
		t.Fatalf("unexpected paths: %s, %s", sfx, ui)
	}
	for path, want := range map[string]string{sfx: "fLaC-sfx", ui: "fLaC-ui"} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(data) != want {
			t.Fatalf("%s = %q, want %q", path, data, want)
		}
	}
}

func TestEnsureCreatesBankDirectory(t *testing.T) {
	w := output.NewWriter(filepath.Join(t.TempDir(), "out"), "flac", "raw", nil)
	if err := w.Ensure(index.Bank48000); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	info, err := os.Stat(w.Dir(index.Bank48000))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected bank directory, stat err = %v", err)
	}
}
