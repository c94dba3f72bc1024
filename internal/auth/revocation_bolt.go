package auth

import (
	"fmt"

	"go.etcd.io/bbolt"
)

// BoltDB bucket for revoked token ids
var bucketRevoked = []byte("revoked_tokens")

// BoltRevocationList is a revocation set backed by BoltDB
// Unlike MemoryRevocationList it survives process restarts
type BoltRevocationList struct {
	db *bbolt.DB
}

// NewBoltRevocationList opens (or creates) a BoltDB file at dbPath
// and prepares the revocation bucket
func NewBoltRevocationList(dbPath string) (*BoltRevocationList, error) {
	db, err := bbolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRevoked); err != nil {
			return fmt.Errorf("failed to create revoked bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltRevocationList{db: db}, nil
}

// Close closes the underlying database
func (l *BoltRevocationList) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Revoke marks the token id as revoked
func (l *BoltRevocationList) Revoke(jti string) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRevoked)
		if b == nil {
			return fmt.Errorf("revoked bucket not found")
		}
		if err := b.Put([]byte(jti), []byte{1}); err != nil {
			return fmt.Errorf("failed to store revoked jti: %w", err)
		}
		return nil
	})
}

// IsRevoked reports whether the token id has been revoked
func (l *BoltRevocationList) IsRevoked(jti string) (bool, error) {
	var revoked bool

	err := l.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRevoked)
		if b == nil {
			return fmt.Errorf("revoked bucket not found")
		}
		revoked = b.Get([]byte(jti)) != nil
		return nil
	})
	if err != nil {
		return false, err
	}

	return revoked, nil
}
