package fileutil

import (
	_ "crypto/sha256" // registers the digest.Canonical hash
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
)

// WriteFileVerified writes data to path through a temporary sibling file,
// re-reads the temporary file against the sha256 digest of data, and renames
// it into place. The destination is either the old file or the complete new
// one, never a partial write. It returns the digest of data.
func WriteFileVerified(path string, data []byte, mode os.FileMode) (digest.Digest, error) {
	want := digest.FromBytes(data)

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", err
	}
	if err := VerifyFile(tmpPath, want); err != nil {
		cleanup()
		return "", err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return "", err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return "", err
	}
	return want, nil
}

// VerifyFile reports an error when the contents of path do not hash to want.
func VerifyFile(path string, want digest.Digest) error {
	if err := want.Validate(); err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	verifier := want.Verifier()
	if _, err := io.Copy(verifier, f); err != nil {
		return err
	}
	if !verifier.Verified() {
		return fmt.Errorf("verify %s: content does not match %s", path, want)
	}
	return nil
}
