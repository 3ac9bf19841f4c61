// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitmate/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting, so enable them in the DSN
	// to cover every connection in the pool. Immediate transactions take the
	// write lock up front, so membership checks and the writes they guard
	// cannot interleave with another writer.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// requireMembers checks inside tx that every user belongs to the group.
func requireMembers(ctx context.Context, tx *sql.Tx, groupID string, userIDs ...string) error {
	for _, userID := range userIDs {
		var one int
		err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?", groupID, userID,
		).Scan(&one)
		if err == sql.ErrNoRows {
			return fmt.Errorf("user %s: %w", userID, storage.ErrNotMember)
		}
		if err != nil {
			return fmt.Errorf("failed to check group membership: %w", err)
		}
	}
	return nil
}

// requireGroupTx reports storage.ErrNotFound when the group does not exist.
func requireGroupTx(ctx context.Context, tx *sql.Tx, groupID string) error {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	return nil
}
