package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownFrame    = errors.New("unknown frame")
	ErrForbidden       = errors.New("session belongs to another merchant")
	ErrInvalidCallback = errors.New("callback URL must be an absolute http(s) URL")
)
