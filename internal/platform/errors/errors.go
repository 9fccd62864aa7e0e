package apperrors

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrInvalidWindow  = errors.New("invalid report window")
	ErrUnknownFormat  = errors.New("unknown export format")
	ErrImmutableEntry = errors.New("entry fields are immutable")
	ErrForbiddenRole  = errors.New("role may not perform this action")
)
