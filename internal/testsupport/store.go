package testsupport

import (
	"context"
	"testing"

	"babel/internal/config"
	"babel/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg.QueueDBPath())
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// NewEpisode creates a pending episode item for tests using the provided store.
func NewEpisode(t testing.TB, store *queue.Store, sourcePath, title string) *queue.Item {
	t.Helper()

	item, err := store.NewEpisode(context.Background(), sourcePath, title)
	if err != nil {
		t.Fatalf("store.NewEpisode: %v", err)
	}
	return item
}
