package auth

import (
	"errors"
	"fmt"

	"reviewhub/proj/internal/domain/errs"
)

var (
	ErrUserNotFound = errs.NotFound("user not found")
	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", errs.ErrUnauthorized)
	ErrInactiveUser = fmt.Errorf("%w: user is not active", errs.ErrUnauthorized)

	errUnexpectedSigningMethod = errors.New("unexpected signing method")
)

const (
	msgInvalidCode       = "invalid confirmation code"
	msgUsernameTaken     = "A user with that username is registered with a different email"
	msgEmailTaken        = "A user with that email is registered with a different username"
	msgAlreadyRegistered = "A user with that username or email already exists"
)
