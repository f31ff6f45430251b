package engine

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument reports a board built from an illegal piece set.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIndexOutOfRange reports a piece index outside [0, PieceCount).
	ErrIndexOutOfRange = errors.New("piece index out of range")
	// ErrInvalidDirection reports a delta that is not one of the four diagonals.
	ErrInvalidDirection = errors.New("invalid direction")
)
