package domain

import (
	"errors"
	"fmt"
)

// Error classes. The HTTP layer maps each class to a status code; specific
// errors wrap one of these so errors.Is works on either.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid access token", ErrUnauthorized)
	ErrSessionRevoked     = fmt.Errorf("%w: session has been logged out", ErrUnauthorized)

	ErrProtectedUser = fmt.Errorf("%w: admin accounts cannot be deleted", ErrForbidden)

	ErrUserNotFound   = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrClientNotFound = fmt.Errorf("%w: client not found", ErrNotFound)

	ErrUserExists   = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrClientExists = fmt.Errorf("%w: client already exists", ErrConflict)

	ErrPasswordRequired     = fmt.Errorf("%w: password and confirmPassword are required", ErrBadRequest)
	ErrPasswordMismatch     = fmt.Errorf("%w: password and confirmPassword do not match", ErrBadRequest)
	ErrInvalidRole          = fmt.Errorf("%w: role must be admin or tailor", ErrBadRequest)
	ErrRecoveryTokenInvalid = fmt.Errorf("%w: recovery token is invalid or expired", ErrBadRequest)
	ErrInvalidName          = fmt.Errorf("%w: name must be between %d and %d characters", ErrBadRequest, NameMinLen, NameMaxLen)
	ErrCustomerNameRequired = fmt.Errorf("%w: customerName must not be blank", ErrBadRequest)
)
