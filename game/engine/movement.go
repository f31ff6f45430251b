package engine

import "github.com/pkg/errors"

// CanMove reports whether the piece at index may step in direction now. The
// piece must belong to the side to move; dogs may only go forward; the
// destination must be an empty square on the board.
func (b *BoardState) CanMove(index int, direction Direction) (bool, error) {
	if err := b.checkIndex(index); err != nil {
		return false, err
	}
	if !direction.IsValid() {
		return false, errors.Wrapf(ErrInvalidDirection, "direction %d", int(direction))
	}
	piece := b.pieces[index]
	if piece.Type != b.toMove {
		return false, nil
	}
	return b.canReach(piece, direction), nil
}

// PossibleMoves lists the directions the piece at index could take on the
// current board, regardless of whose turn it is.
func (b *BoardState) PossibleMoves(index int) ([]Direction, error) {
	if err := b.checkIndex(index); err != nil {
		return nil, err
	}
	piece := b.pieces[index]
	moves := make([]Direction, 0, len(AllDirections))
	for _, direction := range piece.Type.Directions() {
		if b.canReach(piece, direction) {
			moves = append(moves, direction)
		}
	}
	return moves, nil
}

// Move steps the piece at index in direction and hands the turn over. An
// illegal move is silently ignored; only a bad index or direction is an error.
func (b *BoardState) Move(index int, direction Direction) error {
	ok, err := b.CanMove(index, direction)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	b.pieces[index].Position.TranslateBy(direction)
	b.toMove = b.toMove.Opponent()
	return nil
}

// Moved returns a copy of the board with the move applied, leaving b untouched
func (b *BoardState) Moved(index int, direction Direction) (*BoardState, error) {
	next := b.Clone()
	if err := next.Move(index, direction); err != nil {
		return nil, err
	}
	return next, nil
}

func (b *BoardState) canReach(piece Piece, direction Direction) bool {
	if piece.Type == Dog && !direction.IsForward() {
		return false
	}
	destination := piece.Position.Translated(direction)
	return destination.IsOnBoard() && b.IsSquareEmpty(destination)
}
