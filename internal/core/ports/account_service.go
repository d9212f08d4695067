package ports

import (
	"context"
	"time"

	"github.com/stitchboard/tailor-admin/internal/core/domain"
)

// SignUpInput carries the fields a new account is created from.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// UserPatch is the partial update an administrator submits for an account.
type UserPatch struct {
	Name  *string
	Email *string
	Role  *string
}

// LoginResult is returned by a successful LogIn.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// RecoveryToken is the raw recovery secret, handed out exactly once.
type RecoveryToken struct {
	Token     string
	ExpiresAt time.Time
}

// AccountService defines the account use cases.
type AccountService interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, error)
	LogIn(ctx context.Context, email, password string) (*LoginResult, error)
	LogOut(ctx context.Context, session *domain.Session) error
	// Authenticate resolves a bearer token to a live session.
	Authenticate(ctx context.Context, token string) (*domain.Session, error)

	ListUsers(ctx context.Context, caller domain.Identity) ([]*domain.User, error)
	GetSelf(ctx context.Context, caller domain.Identity) (*domain.User, error)
	RemoveUser(ctx context.Context, caller domain.Identity, targetID string) (*domain.User, error)
	UpdateUser(ctx context.Context, caller domain.Identity, targetID string, patch UserPatch) (*domain.User, error)
	ChangePassword(ctx context.Context, targetID, password, confirmPassword string) (*domain.User, error)

	IssueRecoveryToken(ctx context.Context, targetID string) (*RecoveryToken, error)
	ResetPassword(ctx context.Context, token, password, confirmPassword string) error
}
