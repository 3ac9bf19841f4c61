package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/mmynk/splitmate/internal/storage"
	"github.com/mmynk/splitmate/internal/storage/storagetest"
)

// newTestStore connects to SPLITMATE_POSTGRES_URL and empties every table.
// Tests are skipped when the variable is unset.
func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()

	url := os.Getenv("SPLITMATE_POSTGRES_URL")
	if url == "" {
		t.Skip("skipping postgres test (set SPLITMATE_POSTGRES_URL to run)")
	}

	ctx := context.Background()
	store, err := New(ctx, url)
	if err != nil {
		t.Skipf("test postgres not available: %v", err)
	}
	if err := store.truncate(ctx); err != nil {
		store.Close()
		t.Fatalf("failed to truncate tables: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPostgresStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return newTestStore(t)
	})
}
