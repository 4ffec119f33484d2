package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
)

func TestWriteFileVerified(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "sample.flac")
	content := []byte("fLaC payload")

	got, err := WriteFileVerified(dst, content, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if got != digest.FromBytes(content) {
		t.Fatalf("digest = %s, want %s", got, digest.FromBytes(content))
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", data, content)
	}
}

func TestWriteFileVerifiedOverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "sample.raw")
	if err := os.WriteFile(dst, []byte("old content that is longer"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := WriteFileVerified(dst, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Fatalf("expected overwrite, got %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestWriteFileVerifiedEmptyPayload(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "empty.raw")
	if _, err := WriteFileVerified(dst, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file, got %d bytes", info.Size())
	}
}

func TestWriteFileVerifiedMissingDirectory(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "absent", "x.flac")
	if _, err := WriteFileVerified(dst, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestVerifyFileDetectsMismatch(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "f.bin")
	if err := os.WriteFile(dst, []byte("actual"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := VerifyFile(dst, digest.FromBytes([]byte("expected"))); err == nil {
		t.Fatal("expected mismatch error")
	}
	if err := VerifyFile(dst, digest.FromBytes([]byte("actual"))); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := VerifyFile(dst, digest.Digest("bogus")); err == nil {
		t.Fatal("expected invalid digest error")
	}
}
