package testsupport

import (
	"context"
	"testing"

	"bankrip/internal/config"
	"bankrip/internal/manifest"
)

// MustOpenManifest opens the manifest store configured in cfg for tests and
// registers cleanup.
func MustOpenManifest(t testing.TB, cfg *config.Config) *manifest.Store {
	t.Helper()

	store, err := manifest.Open(context.Background(), cfg.Manifest.Path)
	if err != nil {
		t.Fatalf("manifest.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
