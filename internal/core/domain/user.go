package domain

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Role is the authorization level of an account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTailor Role = "tailor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTailor
}

// Protected reports whether accounts holding r are shielded from deletion.
func (r Role) Protected() bool {
	return r == RoleAdmin
}

// Display names are bounded in characters after surrounding whitespace is trimmed.
const (
	NameMinLen = 3
	NameMaxLen = 20
)

// NormalizeName trims name and enforces the display name bounds.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < NameMinLen || n > NameMaxLen {
		return "", ErrInvalidName
	}
	return name, nil
}

const avatarBaseURL = "https://robohash.org/"

// AvatarFor derives the avatar reference for a display name.
func AvatarFor(name string) string {
	return avatarBaseURL + url.PathEscape(name)
}

// User models a shop account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Avatar       string

	// RecoveryTokenHash is the SHA-256 of a password recovery token, never the raw value.
	RecoveryTokenHash   string
	RecoveryTokenExpiry time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// IsAdmin reports whether the identity holds the privileged role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Session is an Identity plus the bearer token it was derived from.
type Session struct {
	Identity
	TokenID   string
	ExpiresAt time.Time
}
