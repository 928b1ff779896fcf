package models

import (
	"errors"
	"fmt"
)

// Domain errors. Handlers map these onto HTTP statuses; everything that
// wraps ErrValidation becomes a 400.
var (
	// ErrValidation marks malformed or missing input. Checked before any
	// lookup is performed.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidStatus is returned when a supplied task status is outside
	// the three-value enum, on both create and update.
	ErrInvalidStatus = fmt.Errorf("%w: invalid task status", ErrValidation)

	// ErrEmailTaken is returned on registration with an already used email.
	ErrEmailTaken = fmt.Errorf("%w: email already registered", ErrValidation)

	// ErrForbidden is returned when the entity exists but the acting user
	// lacks the required ownership or membership.
	ErrForbidden = errors.New("access denied")

	// ErrProjectNotFound is returned when the referenced project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound is returned when the referenced task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on login with an unknown email or a
	// wrong password; the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when the bearer token is missing, expired
	// or fails verification.
	ErrInvalidToken = errors.New("invalid token")
)

// IsNotFound reports whether err is one of the absence errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
