package output

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"bankrip/internal/bankerr"
	"bankrip/internal/extract"
	"bankrip/internal/fileutil"
	"bankrip/internal/index"
	"bankrip/internal/logging"
	"bankrip/internal/textutil"
)

// Writer persists extraction results under <Root>/<bank>/.
type Writer struct {
	root         string
	validatedExt string
	rawExt       string
	logger       *slog.Logger
}

// NewWriter returns a Writer rooted at root. Extensions are given without the
// leading dot.
func NewWriter(root, validatedExt, rawExt string, logger *slog.Logger) *Writer {
	return &Writer{
		root:         root,
		validatedExt: validatedExt,
		rawExt:       rawExt,
		logger:       logging.NewComponentLogger(logger, "output"),
	}
}

// Dir returns the output directory of bank.
func (w *Writer) Dir(bank index.BankID) string {
	return filepath.Join(w.root, bank.String())
}

// Clean deletes every regular file in the bank directory. A missing directory
// is not an error. Sub-directories and their contents are left untouched.
// It returns the number of files removed.
func (w *Writer) Clean(bank index.BankID) (int, error) {
	dir := w.Dir(bank)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, bankerr.Wrap(bankerr.ErrOutput, bank.String(), "clean", dir, err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, bankerr.Wrap(bankerr.ErrOutput, bank.String(), "clean", path, err)
		}
		removed++
	}
	if removed > 0 {
		w.logger.Debug("removed stale output",
			logging.String(logging.FieldBank, bank.String()),
			logging.Int("files", removed))
	}
	return removed, nil
}

// Ensure creates the bank directory.
func (w *Writer) Ensure(bank index.BankID) error {
	dir := w.Dir(bank)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return bankerr.Wrap(bankerr.ErrOutput, bank.String(), "ensure", dir, err)
	}
	return nil
}

// Path returns the file a result is written to, or "" when it has no role.
func (w *Writer) Path(res extract.Result) string {
	var ext string
	switch res.Kind.Role() {
	case extract.RoleValidated:
		ext = w.validatedExt
	case extract.RoleRaw:
		ext = w.rawExt
	default:
		return ""
	}
	return filepath.Join(w.Dir(res.Entry.Bank), fileStem(res.Entry.Name)+"."+ext)
}

// Write persists res and returns the written path. The file is replaced
// atomically and verified against the payload digest. Existing files are
// overwritten. Failed results return bankerr.ErrNothingToWrite.
func (w *Writer) Write(res extract.Result) (string, error) {
	path := w.Path(res)
	if path == "" {
		return "", bankerr.Wrap(bankerr.ErrNothingToWrite, res.Entry.Bank.String(), "write", res.Entry.Name, res.Err)
	}
	if _, err := fileutil.WriteFileVerified(path, res.Payload, 0o644); err != nil {
		return "", bankerr.Wrap(bankerr.ErrEntry, res.Entry.Bank.String(), "write", res.Entry.Name, err)
	}
	return path, nil
}

// fileStem flattens a sample name into one path element inside the bank
// directory, so "sfx/click" becomes "sfx-click". Names that sanitize to
// nothing are hex-encoded.
func fileStem(name string) string {
	stem := textutil.SanitizeFileName(name)
	if stem == "" {
		return fmt.Sprintf("_%x", name)
	}
	return stem
}
