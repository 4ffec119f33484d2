package testsupport

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bankrip/internal/config"
	"bankrip/internal/index"
)

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteBank stores blob as the bank file of bank under cfg's bank root and
// returns its path.
func WriteBank(t testing.TB, cfg *config.Config, bank index.BankID, blob []byte) string {
	t.Helper()

	path := filepath.Join(cfg.Paths.BankRoot, bank.String(), cfg.BankFileName())
	WriteFile(t, path, blob)
	return path
}

// WriteDescription writes lines to cfg's description path.
func WriteDescription(t testing.TB, cfg *config.Config, lines ...string) {
	t.Helper()

	WriteFile(t, cfg.Paths.DescriptionPath, []byte(strings.Join(lines, "\n")+"\n"))
}

// BankDecl returns a bank declaration line for rate using the default bank name.
func BankDecl(rate int) string {
	return fmt.Sprintf(`    var bank = CreateDataBank("core", %d, 2);`, rate)
}

// SampleDecl returns a sample declaration line.
func SampleDecl(name string, offset, length uint64) string {
	return fmt.Sprintf(`    bank.AddSampleData("%s", %d, %d);`, name, offset, length)
}

// FLAC returns a payload of size bytes that starts with the FLAC signature.
// Sizes below four are raised to four.
func FLAC(size int) []byte {
	if size < 4 {
		size = 4
	}
	payload := make([]byte, size)
	copy(payload, "fLaC")
	for i := 4; i < size; i++ {
		payload[i] = byte(i)
	}
	return payload
}

// Blob assembles a bank blob of filler and length-prefixed records.
type Blob struct {
	buf []byte
}

// Pad appends n filler bytes.
func (b *Blob) Pad(n int) *Blob {
	for range n {
		b.buf = append(b.buf, 0xEE)
	}
	return b
}

// Raw appends data verbatim.
func (b *Blob) Raw(data []byte) *Blob {
	b.buf = append(b.buf, data...)
	return b
}

// Record appends a u32le length prefix followed by payload and returns the
// offset of the prefix.
func (b *Blob) Record(payload []byte) uint64 {
	offset := uint64(len(b.buf))
	b.buf = binary.LittleEndian.AppendUint32(b.buf, uint32(len(payload)))
	b.buf = append(b.buf, payload...)
	return offset
}

// Prefix appends a bare u32le length prefix and returns its offset.
func (b *Blob) Prefix(length uint32) uint64 {
	offset := uint64(len(b.buf))
	b.buf = binary.LittleEndian.AppendUint32(b.buf, length)
	return offset
}

// Len returns the current blob size.
func (b *Blob) Len() uint64 {
	return uint64(len(b.buf))
}

// Bytes returns the assembled blob.
func (b *Blob) Bytes() []byte {
	return b.buf
}
