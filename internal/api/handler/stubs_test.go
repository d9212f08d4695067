package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/stitchboard/tailor-admin/internal/api/middleware"
	"github.com/stitchboard/tailor-admin/internal/core/domain"
	"github.com/stitchboard/tailor-admin/internal/core/ports"
)

type stubAccountService struct {
	signUpFn         func(ctx context.Context, in ports.SignUpInput) (*domain.User, error)
	logInFn          func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logOutFn         func(ctx context.Context, session *domain.Session) error
	listUsersFn      func(ctx context.Context, caller domain.Identity) ([]*domain.User, error)
	getSelfFn        func(ctx context.Context, caller domain.Identity) (*domain.User, error)
	removeUserFn     func(ctx context.Context, caller domain.Identity, id string) (*domain.User, error)
	updateUserFn     func(ctx context.Context, caller domain.Identity, id string, patch ports.UserPatch) (*domain.User, error)
	changePasswordFn func(ctx context.Context, id, password, confirm string) (*domain.User, error)
	issueRecoveryFn  func(ctx context.Context, id string) (*ports.RecoveryToken, error)
	resetPasswordFn  func(ctx context.Context, token, password, confirm string) error
}

func (s *stubAccountService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	return s.signUpFn(ctx, in)
}

func (s *stubAccountService) LogIn(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.logInFn(ctx, email, password)
}

func (s *stubAccountService) LogOut(ctx context.Context, session *domain.Session) error {
	return s.logOutFn(ctx, session)
}

func (s *stubAccountService) Authenticate(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrInvalidToken
}

func (s *stubAccountService) ListUsers(ctx context.Context, caller domain.Identity) ([]*domain.User, error) {
	return s.listUsersFn(ctx, caller)
}

func (s *stubAccountService) GetSelf(ctx context.Context, caller domain.Identity) (*domain.User, error) {
	return s.getSelfFn(ctx, caller)
}

func (s *stubAccountService) RemoveUser(ctx context.Context, caller domain.Identity, id string) (*domain.User, error) {
	return s.removeUserFn(ctx, caller, id)
}

func (s *stubAccountService) UpdateUser(ctx context.Context, caller domain.Identity, id string, patch ports.UserPatch) (*domain.User, error) {
	return s.updateUserFn(ctx, caller, id, patch)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, id, password, confirm string) (*domain.User, error) {
	return s.changePasswordFn(ctx, id, password, confirm)
}

func (s *stubAccountService) IssueRecoveryToken(ctx context.Context, id string) (*ports.RecoveryToken, error) {
	return s.issueRecoveryFn(ctx, id)
}

func (s *stubAccountService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	return s.resetPasswordFn(ctx, token, password, confirm)
}

type stubClientService struct {
	createFn func(ctx context.Context, caller domain.Identity, in ports.ClientInput) (*domain.Client, error)
	listFn   func(ctx context.Context, caller domain.Identity) ([]*domain.Client, error)
	updateFn func(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error)
	removeFn func(ctx context.Context, caller domain.Identity, id string) (*domain.Client, error)
}

func (s *stubClientService) CreateMeasurement(ctx context.Context, caller domain.Identity, in ports.ClientInput) (*domain.Client, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubClientService) ListClients(ctx context.Context, caller domain.Identity) ([]*domain.Client, error) {
	return s.listFn(ctx, caller)
}

func (s *stubClientService) UpdateClient(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubClientService) RemoveClient(ctx context.Context, caller domain.Identity, id string) (*domain.Client, error) {
	return s.removeFn(ctx, caller, id)
}

var (
	tailorSession = &domain.Session{Identity: domain.Identity{UserID: "u1", Email: "ana@x.com", Role: domain.RoleTailor}, TokenID: "jti-1"}
	adminSession  = &domain.Session{Identity: domain.Identity{UserID: "a1", Email: "root@x.com", Role: domain.RoleAdmin}, TokenID: "jti-2"}
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds a request context. A non-nil session is stored the
// way the Auth middleware does it.
func newJSONContext(t *testing.T, e *echo.Echo, method, target string, body io.Reader, session *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if session != nil {
		middleware.SetSession(c, session)
	}
	return c, rec
}

func ptr[T any](v T) *T { return &v }
