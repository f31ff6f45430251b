package engine

import (
	"strings"

	"github.com/pkg/errors"
)

// Direction is one of the four diagonal unit steps
type Direction int

const (
	UpLeft Direction = iota
	UpRight
	DownLeft
	DownRight
)

// AllDirections lists every direction in canonical order
var AllDirections = []Direction{UpLeft, UpRight, DownLeft, DownRight}

// Delta returns the (row, col) change of a single step
func (d Direction) Delta() (int, int) {
	switch d {
	case UpLeft:
		return -1, -1
	case UpRight:
		return -1, 1
	case DownLeft:
		return 1, -1
	case DownRight:
		return 1, 1
	}
	return 0, 0
}

// IsValid reports whether d is one of the four declared directions
func (d Direction) IsValid() bool {
	return d >= UpLeft && d <= DownRight
}

// IsForward reports whether d points towards row 0, the only way dogs may go
func (d Direction) IsForward() bool {
	return d == UpLeft || d == UpRight
}

func (d Direction) String() string {
	switch d {
	case UpLeft:
		return "up_left"
	case UpRight:
		return "up_right"
	case DownLeft:
		return "down_left"
	case DownRight:
		return "down_right"
	}
	return "unknown"
}

// DirectionFromDelta maps a raw (Δrow, Δcol) pair onto a direction. Only the
// four unit diagonals are accepted.
func DirectionFromDelta(dRow, dCol int) (Direction, error) {
	for _, d := range AllDirections {
		dr, dc := d.Delta()
		if dr == dRow && dc == dCol {
			return d, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidDirection, "no direction for delta (%d,%d)", dRow, dCol)
}

// DirectionBetween returns the direction leading from one square to a
// diagonally adjacent one.
func DirectionBetween(from, to Position) (Direction, error) {
	return DirectionFromDelta(to.Row-from.Row, to.Col-from.Col)
}

// ParseDirection accepts "up_left", "UP_LEFT", "up-left" and "upleft" spellings
func ParseDirection(s string) (Direction, error) {
	normalized := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch normalized {
	case "upleft":
		return UpLeft, nil
	case "upright":
		return UpRight, nil
	case "downleft":
		return DownLeft, nil
	case "downright":
		return DownRight, nil
	}
	return 0, errors.Wrapf(ErrInvalidDirection, "unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, errors.Wrapf(ErrInvalidDirection, "cannot marshal direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
