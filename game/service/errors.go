package service

import (
	"github.com/pkg/errors"

	"github.com/wricardo/foxcatcher/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrLayoutNotFound  = errors.New("layout not found")
	ErrInvalidLayout   = errors.New("invalid layout")
	ErrInvalidRequest  = errors.New("invalid request")
)

// IsNotFound reports whether err names a session or layout that does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrLayoutNotFound)
}

// IsBadRequest reports whether err was caused by the caller's input
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidLayout) ||
		errors.Is(err, engine.ErrInvalidArgument) ||
		errors.Is(err, engine.ErrIndexOutOfRange) ||
		errors.Is(err, engine.ErrInvalidDirection)
}
