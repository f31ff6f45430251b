package engine

import (
	"github.com/pkg/errors"
)

// DefaultLayoutName identifies the canonical starting position
const DefaultLayoutName = "classic"

// DefaultLayout returns the canonical starting layout: fox at (0,2), dogs
// along the last row, dogs to move.
func DefaultLayout() *Layout {
	board := NewInitialBoardState()
	layout := &Layout{
		Name:        DefaultLayoutName,
		Description: "Standard Fox Catcher opening: the fox starts on the top edge, four dogs on the bottom row",
		ToMove:      board.ToMove(),
	}
	for _, piece := range board.Pieces() {
		layout.Pieces = append(layout.Pieces, PiecePlacement{
			Type: piece.Type,
			Row:  piece.Position.Row,
			Col:  piece.Position.Col,
		})
	}
	return layout
}

// NewBoard builds the starting board described by the layout. An empty
// to_move defaults to the dogs.
func (l *Layout) NewBoard() (*BoardState, error) {
	toMove := l.ToMove
	if toMove == "" {
		toMove = Dog
	}
	pieces := make([]Piece, 0, len(l.Pieces))
	for _, p := range l.Pieces {
		pieces = append(pieces, NewPiece(p.Type, p.Row, p.Col))
	}
	return NewBoardState(toMove, pieces...)
}

// ValidateLayout validates a layout for correctness
func ValidateLayout(layout *Layout) error {
	if layout == nil {
		return errors.Wrap(ErrInvalidArgument, "layout validation: layout is nil")
	}
	if layout.Name == "" {
		return errors.Wrap(ErrInvalidArgument, "layout validation: name is required")
	}
	board, err := layout.NewBoard()
	if err != nil {
		return errors.WithMessage(err, "layout validation")
	}
	if board.IsGoal() {
		return errors.Wrap(ErrInvalidArgument, "layout validation: starting position is already decided")
	}
	return nil
}
