package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"bankrip/internal/bankerr"
	"bankrip/internal/index"
)

// Bank is one sample-rate blob held fully in memory.
type Bank struct {
	ID   index.BankID
	Path string
	Data []byte
}

// BankPath returns <root>/<rate>/<fileName>.
func BankPath(root string, id index.BankID, fileName string) string {
	return filepath.Join(root, id.String(), fileName)
}

// LoadBank reads the bank blob for id. A missing or unreadable file is tagged
// with bankerr.ErrBankUnavailable so the caller can skip only this bank.
func LoadBank(root string, id index.BankID, fileName string) (*Bank, error) {
	path := BankPath(root, id, fileName)
	info, err := os.Stat(path)
	if err != nil {
		return nil, bankerr.Wrap(bankerr.ErrBankUnavailable, id.String(), "stat", path, err)
	}
	if info.IsDir() {
		return nil, bankerr.Wrap(bankerr.ErrBankUnavailable, id.String(), "stat", fmt.Sprintf("%s is a directory", path), nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bankerr.Wrap(bankerr.ErrBankUnavailable, id.String(), "read", path, err)
	}
	return &Bank{ID: id, Path: path, Data: data}, nil
}
