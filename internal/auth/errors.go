package auth

import "errors"

var (
	ErrDisabled      = errors.New("permission tokens disabled")
	ErrNoCredentials = errors.New("no credentials")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInactive      = errors.New("user inactive")
	ErrForbidden     = errors.New("missing cms permission")
)
