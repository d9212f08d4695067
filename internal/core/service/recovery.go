package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const recoveryTokenBytes = 32

// temporaryToken is a one-shot secret. Only hash is ever persisted.
type temporaryToken struct {
	raw    string
	hash   string
	expiry time.Time
}

func newTemporaryToken(now time.Time, ttl time.Duration) (temporaryToken, error) {
	b := make([]byte, recoveryTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return temporaryToken{}, err
	}
	raw := hex.EncodeToString(b)
	return temporaryToken{
		raw:    raw,
		hash:   hashToken(raw),
		expiry: now.Add(ttl),
	}, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
