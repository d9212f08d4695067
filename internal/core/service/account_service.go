package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stitchboard/tailor-admin/internal/api/metrics"
	"github.com/stitchboard/tailor-admin/internal/core/domain"
	"github.com/stitchboard/tailor-admin/internal/core/ports"
)

const defaultRecoveryTTL = 30 * time.Minute

// AccountService implements ports.AccountService.
type AccountService struct {
	users       ports.UserRepository
	hasher      ports.PasswordHasher
	tokens      ports.TokenIssuer
	sessions    ports.SessionRevoker
	recoveryTTL time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

func NewAccountService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	sessions ports.SessionRevoker,
	recoveryTTL time.Duration,
	log zerolog.Logger,
) *AccountService {
	if recoveryTTL <= 0 {
		recoveryTTL = defaultRecoveryTTL
	}
	return &AccountService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		sessions:    sessions,
		recoveryTTL: recoveryTTL,
		log:         log,
		now:         time.Now,
	}
}

// SignUp creates a tailor account. Uniqueness of the email is enforced by the
// store, so concurrent signups cannot both succeed.
func (s *AccountService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	name, err := domain.NormalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrBadRequest
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "error").Inc()
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleTailor,
		Avatar:       domain.AvatarFor(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("signup", "conflict").Inc()
			return nil, domain.ErrUserExists
		}
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "error").Inc()
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("signup", "success").Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return created, nil
}

// LogIn verifies credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AccountService) LogIn(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, session, err := s.tokens.Issue(domain.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// LogOut clears pending recovery state and revokes the presented token.
func (s *AccountService) LogOut(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrUnauthorized
	}

	if err := s.users.ClearRecoveryToken(ctx, session.UserID); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if err := s.sessions.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		s.log.Warn().Err(err).Str("user_id", session.UserID).Msg("failed to revoke session")
	} else {
		metrics.SessionsRevokedTotal.Inc()
	}

	s.log.Info().Str("user_id", session.UserID).Msg("user logged out")
	return nil
}

// Authenticate verifies token, rejects revoked sessions and re-reads the
// account so the returned identity carries the stored email and role.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	session, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.sessions.IsRevoked(ctx, session.TokenID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", session.UserID).Msg("revocation check failed, accepting token")
	} else if revoked {
		return nil, domain.ErrSessionRevoked
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	session.Email = user.Email
	session.Role = user.Role
	return session, nil
}

// ListUsers returns every account to an admin and only the caller's own
// account to a tailor.
func (s *AccountService) ListUsers(ctx context.Context, caller domain.Identity) ([]*domain.User, error) {
	switch caller.Role {
	case domain.RoleAdmin:
		return s.users.List(ctx)
	case domain.RoleTailor:
		self, err := s.users.FindByID(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		return []*domain.User{self}, nil
	default:
		return nil, domain.ErrForbidden
	}
}

func (s *AccountService) GetSelf(ctx context.Context, caller domain.Identity) (*domain.User, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// RemoveUser deletes a tailor account. Admin accounts are never deleted.
func (s *AccountService) RemoveUser(ctx context.Context, caller domain.Identity, targetID string) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role.Protected() {
		s.log.Warn().Str("caller_id", caller.UserID).Str("target_id", targetID).Msg("refused to delete protected account")
		return nil, domain.ErrProtectedUser
	}

	// The guard on the delete itself covers a promotion racing this call.
	deleted, err := s.users.Delete(ctx, targetID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	metrics.UsersDeletedTotal.Inc()
	s.log.Info().Str("caller_id", caller.UserID).Str("target_id", targetID).Msg("user deleted")
	return deleted, nil
}

// UpdateUser merges patch into the target account. Changing the name also
// refreshes the derived avatar.
func (s *AccountService) UpdateUser(ctx context.Context, caller domain.Identity, targetID string, patch ports.UserPatch) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	var update ports.UserUpdate
	if patch.Name != nil {
		name, err := domain.NormalizeName(*patch.Name)
		if err != nil {
			return nil, err
		}
		avatar := domain.AvatarFor(name)
		update.Name = &name
		update.Avatar = &avatar
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		update.Email = &email
	}
	if patch.Role != nil {
		role := domain.Role(*patch.Role)
		if !role.Valid() {
			return nil, domain.ErrInvalidRole
		}
		update.Role = &role
	}

	updated, err := s.users.Update(ctx, targetID, update)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("caller_id", caller.UserID).Str("target_id", targetID).Msg("user updated")
	return updated, nil
}

// ChangePassword re-hashes and stores a new password for the target.
func (s *AccountService) ChangePassword(ctx context.Context, targetID, password, confirmPassword string) (*domain.User, error) {
	if err := checkNewPassword(password, confirmPassword); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdatePassword(ctx, targetID, hash)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("target_id", targetID).Msg("password changed")
	return updated, nil
}

// IssueRecoveryToken stores the hash of a fresh recovery token on the target
// and returns the raw token. Any earlier token is replaced.
func (s *AccountService) IssueRecoveryToken(ctx context.Context, targetID string) (*ports.RecoveryToken, error) {
	tok, err := newTemporaryToken(s.now().UTC(), s.recoveryTTL)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRecoveryToken(ctx, targetID, tok.hash, tok.expiry); err != nil {
		return nil, err
	}

	s.log.Info().Str("target_id", targetID).Time("expires_at", tok.expiry).Msg("recovery token issued")
	return &ports.RecoveryToken{Token: tok.raw, ExpiresAt: tok.expiry}, nil
}

// ResetPassword redeems a recovery token. The token is single use.
func (s *AccountService) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if token == "" {
		return domain.ErrRecoveryTokenInvalid
	}
	if err := checkNewPassword(password, confirmPassword); err != nil {
		return err
	}

	tokenHash := hashToken(token)
	if _, err := s.users.FindByRecoveryToken(ctx, tokenHash, s.now().UTC()); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrRecoveryTokenInvalid
		}
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	// The lookup above only spares a hash for unknown tokens; the redeem is
	// what consumes the token.
	user, err := s.users.RedeemRecoveryToken(ctx, tokenHash, s.now().UTC(), hash)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrRecoveryTokenInvalid
		}
		return err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset with recovery token")
	return nil
}

// SeedAdmin creates the administrator account, or promotes the account that
// already holds email. An existing account keeps its password.
func (s *AccountService) SeedAdmin(ctx context.Context, in ports.SignUpInput) (*domain.User, bool, error) {
	name, err := domain.NormalizeName(in.Name)
	if err != nil {
		return nil, false, err
	}
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, false, domain.ErrBadRequest
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == domain.RoleAdmin {
			return existing, false, nil
		}
		role := domain.RoleAdmin
		promoted, err := s.users.Update(ctx, existing.ID, ports.UserUpdate{Role: &role})
		if err != nil {
			return nil, false, err
		}
		s.log.Info().Str("user_id", promoted.ID).Msg("account promoted to admin")
		return promoted, false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, false, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, false, err
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Avatar:       domain.AvatarFor(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, false, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("admin account created")
	return created, true, nil
}

func checkNewPassword(password, confirmPassword string) error {
	if password == "" || confirmPassword == "" {
		return domain.ErrPasswordRequired
	}
	if password != confirmPassword {
		return domain.ErrPasswordMismatch
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
