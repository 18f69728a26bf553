package testsupport

import (
	"testing"

	"reel/internal/config"
	"reel/internal/simplepersist"
)

// MustOpenStore opens a simplepersist.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *simplepersist.Store {
	t.Helper()

	store, err := simplepersist.Open(cfg, nil)
	if err != nil {
		t.Fatalf("simplepersist.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
