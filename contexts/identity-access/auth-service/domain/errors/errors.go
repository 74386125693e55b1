package errors

import "errors"

var (
	ErrUnauthenticated = errors.New("no valid credential presented")
	ErrInvalidBearer   = errors.New("bearer token is invalid")
	ErrSessionExpired  = errors.New("session has expired")
	ErrForbidden       = errors.New("caller lacks the required role")
)
