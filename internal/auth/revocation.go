package auth

import "sync"

// RevocationChecker is the revocation collaborator consulted on every
// authenticated request. Implementations must be safe for concurrent use
type RevocationChecker interface {
	// Revoke marks the token id as revoked. Idempotent
	Revoke(jti string) error

	// IsRevoked reports whether the token id has been revoked
	IsRevoked(jti string) (bool, error)
}

// MemoryRevocationList is an in-memory revocation set guarded by a mutex
// Its lifetime is the process lifetime: revocations are lost on restart,
// which is acceptable only while token TTLs stay short
type MemoryRevocationList struct {
	revoked map[string]struct{}
	mu      sync.RWMutex
}

// NewMemoryRevocationList creates an empty in-memory revocation list
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		revoked: make(map[string]struct{}),
	}
}

// Revoke marks the token id as revoked
func (l *MemoryRevocationList) Revoke(jti string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.revoked[jti] = struct{}{}
	return nil
}

// IsRevoked reports whether the token id has been revoked
func (l *MemoryRevocationList) IsRevoked(jti string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.revoked[jti]
	return ok, nil
}
