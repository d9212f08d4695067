package ports

import (
	"context"
	"time"

	"github.com/stitchboard/tailor-admin/internal/core/domain"
)

// PasswordHasher is a one-way password transform.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext produces hash.
	Verify(plaintext, hash string) bool
}

// TokenIssuer signs and validates stateless bearer tokens.
type TokenIssuer interface {
	Issue(identity domain.Identity) (token string, session *domain.Session, err error)
	// Verify fails with domain.ErrInvalidToken on bad signature, malformed payload or expiry.
	Verify(token string) (*domain.Session, error)
}

// SessionRevoker records logged-out token ids until they would have expired anyway.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
