package testsupport

import (
	"testing"

	"bdindex/internal/catalog"
	"bdindex/internal/config"
)

// MustOpenCatalog opens the catalog for cfg and closes it when the test ends.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
