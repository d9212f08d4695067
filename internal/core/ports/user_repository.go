package ports

import (
	"context"
	"time"

	"github.com/stitchboard/tailor-admin/internal/core/domain"
)

// UserUpdate carries the fields an administrator may change on an account.
// Nil fields are left untouched. Avatar is derived by the service whenever
// Name is set.
type UserUpdate struct {
	Name   *string
	Email  *string
	Role   *domain.Role
	Avatar *string
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	// Create inserts the user; a duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	// UpdatePassword stores a new hash and drops any pending recovery token.
	UpdatePassword(ctx context.Context, id, passwordHash string) (*domain.User, error)
	// Delete removes the user unless it currently holds keepRole, in which
	// case (or when absent) domain.ErrUserNotFound is returned.
	Delete(ctx context.Context, id string, keepRole domain.Role) (*domain.User, error)

	SetRecoveryToken(ctx context.Context, id, tokenHash string, expiry time.Time) error
	ClearRecoveryToken(ctx context.Context, id string) error
	// FindByRecoveryToken returns the user holding tokenHash whose expiry is after now.
	FindByRecoveryToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	// RedeemRecoveryToken stores passwordHash and drops the recovery token in
	// one conditional write. It yields domain.ErrUserNotFound when tokenHash is
	// no longer held unexpired, so a token redeems at most once.
	RedeemRecoveryToken(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error)
}
