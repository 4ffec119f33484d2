package bankerr_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"bankrip/internal/bankerr"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	err := bankerr.Wrap(bankerr.ErrBankUnavailable, "44100", "load", "read core.bytes", fs.ErrNotExist)
	if !errors.Is(err, bankerr.ErrBankUnavailable) {
		t.Fatalf("expected bank marker, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "44100: load: read core.bytes") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := bankerr.Wrap(nil, " ", "", "", nil)
	if !errors.Is(err, bankerr.ErrEntry) {
		t.Fatalf("expected entry marker default, got %v", err)
	}
	if !strings.Contains(err.Error(), "extraction failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestFatal(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{bankerr.Wrap(bankerr.ErrDescription, "", "read", "", nil), true},
		{bankerr.Wrap(bankerr.ErrLocked, "", "lock", "", nil), true},
		{bankerr.Wrap(bankerr.ErrBankUnavailable, "24000", "load", "", nil), false},
		{bankerr.Wrap(bankerr.ErrOutOfBounds, "24000", "classify", "", nil), false},
		{errors.New("plain"), false},
	}
	for _, tc := range cases {
		if got := bankerr.Fatal(tc.err); got != tc.want {
			t.Fatalf("Fatal(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
