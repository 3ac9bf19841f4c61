// Package idempotency records Idempotency-Key claims in a BoltDB file so that a
// retried create request resolves to the resource made by the first attempt.
//
// A claim maps (scope, key) to the ID of the resource the request creates and
// a fingerprint of the request payload. The first Claim for a key wins; later
// Claims with the same fingerprint get the stored entry back, and Claims with a
// different fingerprint fail with ErrFingerprintMismatch.
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "github.com/boltdb/bolt"
)

// ErrFingerprintMismatch is returned when a key is reused with a different payload.
var ErrFingerprintMismatch = errors.New("idempotency key reused with a different request")

// Claim is the stored entry for one idempotency key.
type Claim struct {
	ResourceID  string    `json:"resource_id"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`

	// Created is true when this call recorded the key. It is not persisted.
	Created bool `json:"-"`
}

// Store wraps a BoltDB database holding one bucket per scope.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the claim database at path, creating its parent
// directory if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create idempotency db directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open idempotency db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// Claim records key under scope for resourceID if the key is unused.
// If the key was already claimed with the same fingerprint, the stored claim
// is returned with Created set to false.
func (s *Store) Claim(scope, key, fingerprint, resourceID string) (Claim, error) {
	var result Claim

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(scope))
		if err != nil {
			return err
		}

		if existing := b.Get([]byte(key)); existing != nil {
			if err := json.Unmarshal(existing, &result); err != nil {
				return fmt.Errorf("corrupt claim for %s/%s: %w", scope, key, err)
			}
			if result.Fingerprint != fingerprint {
				return ErrFingerprintMismatch
			}
			return nil
		}

		result = Claim{
			ResourceID:  resourceID,
			Fingerprint: fingerprint,
			CreatedAt:   time.Now().UTC(),
		}
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		result.Created = true
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return Claim{}, err
	}

	return result, nil
}

// Release forgets a claim. Used when the create it guarded failed, so a retry
// may try again. Releasing an unknown key is a no-op.
func (s *Store) Release(scope, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(scope))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// Fingerprint returns a stable digest of v's JSON encoding.
func Fingerprint(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
