package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stitchboard/tailor-admin/internal/api/middleware"
	"github.com/stitchboard/tailor-admin/internal/core/domain"
)

// ctxSession returns the session injected by the Auth middleware. A missing
// session means the route was mounted without the gate; treat it as 401.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session, ok := middleware.SessionFrom(c)
	if !ok || session.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return session, nil
}

// bindAndValidate decodes the request body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
