package bankerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrDescription     = errors.New("description unreadable")
	ErrBankUnavailable = errors.New("bank unavailable")
	ErrOutput          = errors.New("output unavailable")
	ErrOutOfBounds     = errors.New("entry out of bounds")
	ErrEntry           = errors.New("entry extraction failed")
	ErrNothingToWrite  = errors.New("nothing to write")
	ErrLocked          = errors.New("output root locked")
)

// Wrap builds an error message that includes bank context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, bank, operation, message string, err error) error {
	detail := buildDetail(bank, operation, message)
	if marker == nil {
		marker = ErrEntry
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether err must abort the whole run rather than a single bank
// or entry.
func Fatal(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrDescription), errors.Is(err, ErrConfiguration), errors.Is(err, ErrLocked):
		return true
	default:
		return false
	}
}

func buildDetail(bank, operation, message string) string {
	parts := make([]string, 0, 3)
	if bank = strings.TrimSpace(bank); bank != "" {
		parts = append(parts, bank)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "extraction failure"
	}
	return strings.Join(parts, ": ")
}
