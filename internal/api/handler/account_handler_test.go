package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stitchboard/tailor-admin/internal/api/middleware"
	"github.com/stitchboard/tailor-admin/internal/core/domain"
	"github.com/stitchboard/tailor-admin/internal/core/ports"
)

func storedUser() *domain.User {
	return &domain.User{
		ID:                "u1",
		Name:              "Ana",
		Email:             "ana@x.com",
		PasswordHash:      "$2a$16$hash",
		Role:              domain.RoleTailor,
		Avatar:            "https://robohash.org/Ana",
		RecoveryTokenHash: "deadbeef",
	}
}

func TestAccountHandler_SignUp_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		signUpFn: func(_ context.Context, in ports.SignUpInput) (*domain.User, error) {
			if in.Name != "Ana" || in.Email != "ana@x.com" || in.Password != "Secret1!" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return storedUser(), nil
		},
	}
	handler := NewAccountHandler(stub, CookieOptions{Secure: true})

	body := strings.NewReader(`{"name":"Ana","email":"ana@x.com","password":"Secret1!"}`)
	c, rec := newJSONContext(t, e, http.MethodPost, "/api/v1/user/signup", body, nil)

	if err := handler.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	raw := rec.Body.String()
	for _, secret := range []string{"$2a$16$hash", "deadbeef", "password", "forgot"} {
		if strings.Contains(raw, secret) {
			t.Fatalf("response leaked %q: %s", secret, raw)
		}
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success, got %v", resp["success"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "ana@x.com" || user["role"] != "tailor" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAccountHandler_SignUp_Rejects(t *testing.T) {
	cases := map[string]string{
		"invalid json":   `not-json`,
		"weak password":  `{"name":"Ana","email":"ana@x.com","password":"secret"}`,
		"bad email":      `{"name":"Ana","email":"ana","password":"Secret1!"}`,
		"name too short": `{"name":"An","email":"ana@x.com","password":"Secret1!"}`,
		"padded name":    `{"name":"  ab  ","email":"ana@x.com","password":"Secret1!"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubAccountService{
				signUpFn: func(context.Context, ports.SignUpInput) (*domain.User, error) {
					t.Fatalf("should not be called")
					return nil, nil
				},
			}
			c, rec := newJSONContext(t, e, http.MethodPost, "/", strings.NewReader(body), nil)

			if err := NewAccountHandler(stub, CookieOptions{}).SignUp(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestAccountHandler_SignUp_Conflict(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		signUpFn: func(context.Context, ports.SignUpInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	body := strings.NewReader(`{"name":"Ana","email":"ana@x.com","password":"Secret1!"}`)
	c, _ := newJSONContext(t, e, http.MethodPost, "/", body, nil)

	if err := NewAccountHandler(stub, CookieOptions{}).SignUp(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAccountHandler_LogIn_SetsCookie(t *testing.T) {
	e := newTestEcho()
	expires := time.Now().Add(24 * time.Hour).Truncate(time.Second).UTC()
	stub := &stubAccountService{
		logInFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "ana@x.com" || password != "Secret1!" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{Token: "token123", ExpiresAt: expires, User: storedUser()}, nil
		},
	}
	handler := NewAccountHandler(stub, CookieOptions{Secure: true})

	body := strings.NewReader(`{"email":"ana@x.com","password":"Secret1!"}`)
	c, rec := newJSONContext(t, e, http.MethodPost, "/api/v1/user/login", body, nil)

	if err := handler.LogIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != middleware.AccessTokenCookie || ck.Value != "token123" {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
	if !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteNoneMode {
		t.Fatalf("cookie flags not set: %+v", ck)
	}
	if ck.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("expected 24h max-age, got %d", ck.MaxAge)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token in body, got %v", resp["token"])
	}
}

func TestAccountHandler_LogIn_InsecureCookieUsesLax(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		logInFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return &ports.LoginResult{Token: "t", User: storedUser()}, nil
		},
	}
	c, rec := newJSONContext(t, e, http.MethodPost, "/", strings.NewReader(`{"email":"ana@x.com","password":"x"}`), nil)

	if err := NewAccountHandler(stub, CookieOptions{Secure: false}).LogIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	ck := rec.Result().Cookies()[0]
	if ck.Secure || ck.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected insecure lax cookie, got %+v", ck)
	}
}

func TestAccountHandler_LogIn_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		logInFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c, rec := newJSONContext(t, e, http.MethodPost, "/", strings.NewReader(`{"email":"ana@x.com","password":"wrong"}`), nil)

	err := NewAccountHandler(stub, CookieOptions{}).LogIn(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie must be set on failure")
	}
}

func TestAccountHandler_LogIn_MissingFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		logInFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, rec := newJSONContext(t, e, http.MethodPost, "/", strings.NewReader(`{"email":"ana@x.com"}`), nil)

	if err := NewAccountHandler(stub, CookieOptions{}).LogIn(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_LogOut_ClearsCookie(t *testing.T) {
	e := newTestEcho()
	var revoked *domain.Session
	stub := &stubAccountService{
		logOutFn: func(_ context.Context, session *domain.Session) error {
			revoked = session
			return nil
		},
	}
	c, rec := newJSONContext(t, e, http.MethodPost, "/", nil, tailorSession)

	if err := NewAccountHandler(stub, CookieOptions{Secure: true}).LogOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked == nil || revoked.TokenID != "jti-1" {
		t.Fatalf("expected session passed to service, got %+v", revoked)
	}
	ck := rec.Result().Cookies()[0]
	if ck.Name != middleware.AccessTokenCookie || ck.Value != "" || ck.MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", ck)
	}
}

func TestAccountHandler_RequiresSession(t *testing.T) {
	h := NewAccountHandler(&stubAccountService{}, CookieOptions{})
	endpoints := map[string]echo.HandlerFunc{
		"logout":    h.LogOut,
		"me":        h.Me,
		"all users": h.ListUsers,
		"remove":    h.Remove,
		"update":    h.Update,
	}
	for name, fn := range endpoints {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			c, rec := newJSONContext(t, e, http.MethodGet, "/", strings.NewReader(`{}`), nil)
			if err := fn(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAccountHandler_ListUsers_PassesCaller(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		listUsersFn: func(_ context.Context, caller domain.Identity) ([]*domain.User, error) {
			if caller != tailorSession.Identity {
				t.Fatalf("unexpected caller: %+v", caller)
			}
			return []*domain.User{storedUser()}, nil
		},
	}
	c, rec := newJSONContext(t, e, http.MethodGet, "/", nil, tailorSession)

	if err := NewAccountHandler(stub, CookieOptions{}).ListUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp usersEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || len(resp.Users) != 1 || resp.Users[0].ID != "u1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAccountHandler_Remove(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		removeUserFn: func(_ context.Context, caller domain.Identity, id string) (*domain.User, error) {
			if id == "admin-id" {
				return nil, domain.ErrProtectedUser
			}
			return storedUser(), nil
		},
	}
	h := NewAccountHandler(stub, CookieOptions{})

	c, _ := newJSONContext(t, e, http.MethodDelete, "/", nil, tailorSession)
	c.SetParamNames("id")
	c.SetParamValues("admin-id")
	if err := h.Remove(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	c, rec := newJSONContext(t, e, http.MethodDelete, "/", nil, adminSession)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.Remove(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Update_PartialPatch(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		updateUserFn: func(_ context.Context, caller domain.Identity, id string, patch ports.UserPatch) (*domain.User, error) {
			if id != "u1" || !caller.IsAdmin() {
				t.Fatalf("unexpected call: %s %+v", id, caller)
			}
			if patch.Name != nil || patch.Email != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			if patch.Role == nil || *patch.Role != "admin" {
				t.Fatalf("role not passed: %+v", patch)
			}
			u := storedUser()
			u.Role = domain.RoleAdmin
			return u, nil
		},
	}
	c, rec := newJSONContext(t, e, http.MethodPatch, "/", strings.NewReader(`{"role":"admin"}`), adminSession)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := NewAccountHandler(stub, CookieOptions{}).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User.Role != "admin" {
		t.Fatalf("expected admin role, got %q", resp.User.Role)
	}
}

func TestAccountHandler_Update_RejectsUnknownRole(t *testing.T) {
	e := newTestEcho()
	c, rec := newJSONContext(t, e, http.MethodPatch, "/", strings.NewReader(`{"role":"owner"}`), adminSession)

	if err := NewAccountHandler(&stubAccountService{}, CookieOptions{}).Update(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Update_RejectsPaddedShortName(t *testing.T) {
	e := newTestEcho()
	c, rec := newJSONContext(t, e, http.MethodPatch, "/", strings.NewReader(`{"name":"  x  "}`), adminSession)

	if err := NewAccountHandler(&stubAccountService{}, CookieOptions{}).Update(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_UpdatePassword(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		changePasswordFn: func(_ context.Context, id, password, confirm string) (*domain.User, error) {
			if password != confirm {
				return nil, domain.ErrPasswordMismatch
			}
			return storedUser(), nil
		},
	}
	h := NewAccountHandler(stub, CookieOptions{})

	c, _ := newJSONContext(t, e, http.MethodPut, "/", strings.NewReader(`{"password":"Secret1!","confirmPassword":"Secret2!"}`), adminSession)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.UpdatePassword(c); !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}

	c, rec := newJSONContext(t, e, http.MethodPut, "/", strings.NewReader(`{"password":"Secret1!","confirmPassword":"Secret1!"}`), adminSession)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.UpdatePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAccountHandler_RecoveryFlow(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		issueRecoveryFn: func(_ context.Context, id string) (*ports.RecoveryToken, error) {
			return &ports.RecoveryToken{Token: "raw-token", ExpiresAt: time.Now().Add(30 * time.Minute)}, nil
		},
		resetPasswordFn: func(_ context.Context, token, password, confirm string) error {
			if token != "raw-token" {
				return domain.ErrRecoveryTokenInvalid
			}
			return nil
		},
	}
	h := NewAccountHandler(stub, CookieOptions{})

	c, rec := newJSONContext(t, e, http.MethodPost, "/", nil, adminSession)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.IssueRecoveryToken(c); err != nil {
		t.Fatalf("issue: %v", err)
	}
	var issued recoveryTokenEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &issued); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if issued.Token != "raw-token" {
		t.Fatalf("expected raw token, got %q", issued.Token)
	}

	c, _ = newJSONContext(t, e, http.MethodPost, "/", strings.NewReader(`{"token":"other","password":"Secret1!","confirmPassword":"Secret1!"}`), nil)
	if err := h.ResetPassword(c); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}

	c, rec = newJSONContext(t, e, http.MethodPost, "/", strings.NewReader(`{"token":"raw-token","password":"Secret1!","confirmPassword":"Secret1!"}`), nil)
	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
