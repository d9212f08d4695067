package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stitchboard/tailor-admin/internal/api/middleware"
	"github.com/stitchboard/tailor-admin/internal/core/ports"
)

const defaultCookieTTL = 24 * time.Hour

// CookieOptions controls the session cookie written on login.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

type AccountHandler struct {
	accounts ports.AccountService
	cookie   CookieOptions
}

func NewAccountHandler(accounts ports.AccountService, cookie CookieOptions) *AccountHandler {
	if cookie.TTL <= 0 {
		cookie.TTL = defaultCookieTTL
	}
	return &AccountHandler{accounts: accounts, cookie: cookie}
}

// SignUp creates a new tailor account.
//
// @Summary      Register a new account
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /user/signup [post]
func (h *AccountHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.SignUp(c.Request().Context(), ports.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{
		Success: true,
		Message: "user successfully created",
		User:    toUserResponse(user),
	})
}

// LogIn authenticates an account, sets the session cookie and returns the token.
//
// @Summary      Log in
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /user/login [post]
func (h *AccountHandler) LogIn(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.accounts.LogIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(result.Token, time.Now().Add(h.cookie.TTL), int(h.cookie.TTL.Seconds())))

	return c.JSON(http.StatusOK, loginEnvelope{
		Success:   true,
		Message:   "user logged in successfully",
		User:      toUserResponse(result.User),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// LogOut revokes the current session and clears the cookie.
//
// @Summary      Log out
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /user/logout [post]
func (h *AccountHandler) LogOut(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.accounts.LogOut(c.Request().Context(), session); err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie("", time.Unix(0, 0), -1))
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "user logged out successfully"})
}

// Me returns the caller's own account.
//
// @Summary      Current account
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userEnvelope
// @Failure      401  {object}  errorResponse
// @Router       /user/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.GetSelf(c.Request().Context(), session.Identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Success: true, Message: "current user", User: toUserResponse(user)})
}

// ListUsers returns every account for admins and only the caller otherwise.
//
// @Summary      List accounts
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersEnvelope
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /user/allusers [get]
func (h *AccountHandler) ListUsers(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	users, err := h.accounts.ListUsers(c.Request().Context(), session.Identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersEnvelope{Success: true, Message: "all users", Users: toUserResponses(users)})
}

// Remove deletes an account. Admin accounts cannot be removed.
//
// @Summary      Delete an account
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  userEnvelope
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/remove/{id} [delete]
func (h *AccountHandler) Remove(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.RemoveUser(c.Request().Context(), session.Identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Success: true, Message: "user deleted successfully", User: toUserResponse(user)})
}

// Update applies a partial update, including role reassignment.
//
// @Summary      Update an account
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /user/update/{id} [patch]
func (h *AccountHandler) Update(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateUser(c.Request().Context(), session.Identity, c.Param("id"), ports.UserPatch{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Success: true, Message: "user updated successfully", User: toUserResponse(user)})
}

// UpdatePassword sets a new password for the target account.
//
// @Summary      Change an account password
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Account id"
// @Param        body  body      changePasswordRequest  true  "New password"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /user/updatepassword/{id} [put]
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.ChangePassword(c.Request().Context(), c.Param("id"), req.Password, req.ConfirmPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Success: true, Message: "password updated successfully", User: toUserResponse(user)})
}

// IssueRecoveryToken hands out a one-time password reset token for an account.
//
// @Summary      Issue a password recovery token
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  recoveryTokenEnvelope
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/recovery-token/{id} [post]
func (h *AccountHandler) IssueRecoveryToken(c echo.Context) error {
	token, err := h.accounts.IssueRecoveryToken(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recoveryTokenEnvelope{
		Success:   true,
		Message:   "recovery token issued",
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
}

// ResetPassword redeems a recovery token.
//
// @Summary      Reset a password with a recovery token
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /user/reset-password [post]
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ResetPassword(c.Request().Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "password reset successfully"})
}

// sessionCookie builds the access token cookie. Browsers drop SameSite=None
// cookies that are not Secure, so insecure deployments fall back to Lax.
func (h *AccountHandler) sessionCookie(value string, expires time.Time, maxAge int) *http.Cookie {
	sameSite := http.SameSiteNoneMode
	if !h.cookie.Secure {
		sameSite = http.SameSiteLaxMode
	}
	return &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: sameSite,
	}
}
