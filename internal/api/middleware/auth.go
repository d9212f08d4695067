package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stitchboard/tailor-admin/internal/core/domain"
)

// AccessTokenCookie is the cookie the login handler stores the session token in.
const AccessTokenCookie = "accessToken"

const sessionKey = "session"

// Authenticator resolves a raw bearer token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// Auth rejects requests without a valid session and stores the session in the
// echo context. The cookie takes precedence over the Authorization header.
func Auth(authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c)
			if err != nil {
				return err
			}

			session, err := authenticator.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return err
				}
				return fmt.Errorf("authenticate: %w", err)
			}

			SetSession(c, session)
			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, error) {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

// SetSession stores session for downstream handlers.
func SetSession(c echo.Context, session *domain.Session) {
	c.Set(sessionKey, session)
}

// SessionFrom returns the session stored by Auth, if any.
func SessionFrom(c echo.Context) (*domain.Session, bool) {
	s, ok := c.Get(sessionKey).(*domain.Session)
	return s, ok && s != nil
}
