package engine

import (
	"strings"

	"github.com/pkg/errors"
)

// BoardState owns the five pieces and whose turn it is. Pieces are addressed
// by their index, which never changes for the lifetime of the board. The zero
// value has no fox and is never a goal state; use NewBoardState.
type BoardState struct {
	pieces [PieceCount]Piece
	toMove PieceType
}

// BoardSnapshot is the serializable form of a BoardState
type BoardSnapshot struct {
	ToMove PieceType `json:"to_move"`
	Pieces []Piece   `json:"pieces"`
}

// NewBoardState creates a board from an explicit layout. It fails with
// ErrInvalidArgument unless there are exactly five pieces, exactly one fox,
// and all positions are on the board and pairwise distinct.
func NewBoardState(toMove PieceType, pieces ...Piece) (*BoardState, error) {
	if !toMove.IsValid() {
		return nil, errors.Wrapf(ErrInvalidArgument, "unknown side to move %q", toMove)
	}
	if len(pieces) != PieceCount {
		return nil, errors.Wrapf(ErrInvalidArgument, "expected %d pieces, got %d", PieceCount, len(pieces))
	}

	foxes := 0
	for i, piece := range pieces {
		switch piece.Type {
		case Fox:
			foxes++
		case Dog:
		default:
			return nil, errors.Wrapf(ErrInvalidArgument, "piece %d has unknown type %q", i, piece.Type)
		}
		if !piece.Position.IsOnBoard() {
			return nil, errors.Wrapf(ErrInvalidArgument, "piece %d is off the board at %s", i, piece.Position)
		}
		for j := i + 1; j < len(pieces); j++ {
			if pieces[j].Position == piece.Position {
				return nil, errors.Wrapf(ErrInvalidArgument, "pieces %d and %d share square %s", i, j, piece.Position)
			}
		}
	}
	if foxes != 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "expected exactly one fox, got %d", foxes)
	}

	board := &BoardState{toMove: toMove}
	copy(board.pieces[:], pieces)
	return board, nil
}

// NewInitialBoardState creates the canonical starting position with the dogs to move
func NewInitialBoardState() *BoardState {
	return NewInitialBoardStateWithTurn(Dog)
}

// NewInitialBoardStateWithTurn creates the canonical starting position with
// the given side to move.
func NewInitialBoardStateWithTurn(toMove PieceType) *BoardState {
	if !toMove.IsValid() {
		toMove = Dog
	}
	return &BoardState{
		toMove: toMove,
		pieces: [PieceCount]Piece{
			NewPiece(Fox, 0, 2),
			NewPiece(Dog, 7, 1),
			NewPiece(Dog, 7, 3),
			NewPiece(Dog, 7, 5),
			NewPiece(Dog, 7, 7),
		},
	}
}

// BoardStateFromSnapshot restores a board, re-checking every invariant
func BoardStateFromSnapshot(snapshot BoardSnapshot) (*BoardState, error) {
	return NewBoardState(snapshot.ToMove, snapshot.Pieces...)
}

// Snapshot returns an independent serializable copy of the board
func (b *BoardState) Snapshot() BoardSnapshot {
	return BoardSnapshot{ToMove: b.toMove, Pieces: b.Pieces()}
}

// PieceCount is always five
func (b *BoardState) PieceCount() int {
	return len(b.pieces)
}

// PieceAt returns a copy of the piece at index
func (b *BoardState) PieceAt(index int) (Piece, error) {
	if err := b.checkIndex(index); err != nil {
		return Piece{}, err
	}
	return b.pieces[index], nil
}

// Pieces returns a copy of all pieces in index order
func (b *BoardState) Pieces() []Piece {
	pieces := make([]Piece, len(b.pieces))
	copy(pieces, b.pieces[:])
	return pieces
}

// IndexAt returns the index of the piece standing on position. The second
// result is false for empty and off-board squares.
func (b *BoardState) IndexAt(position Position) (int, bool) {
	if !position.IsOnBoard() {
		return 0, false
	}
	for i, piece := range b.pieces {
		if piece.Position == position {
			return i, true
		}
	}
	return 0, false
}

// ToMove returns the side whose turn it is
func (b *BoardState) ToMove() PieceType {
	return b.toMove
}

// IsSquareEmpty reports whether no piece stands on position. Off-board
// positions are reported as empty; callers bounds-check separately.
func (b *BoardState) IsSquareEmpty(position Position) bool {
	for _, piece := range b.pieces {
		if piece.Position == position {
			return false
		}
	}
	return true
}

// FoxIndex returns the index of the single fox
func (b *BoardState) FoxIndex() int {
	for i, piece := range b.pieces {
		if piece.Type == Fox {
			return i
		}
	}
	return -1
}

// FoxWins reports whether the fox stands on a higher row number than every dog
func (b *BoardState) FoxWins() bool {
	fox := b.FoxIndex()
	if fox < 0 {
		return false
	}
	foxRow := b.pieces[fox].Position.Row
	bypassed := 0
	for _, piece := range b.pieces {
		if piece.Position.Row < foxRow {
			bypassed++
		}
	}
	return bypassed == DogCount
}

// DogWins reports whether the fox has no legal square to go to
func (b *BoardState) DogWins() bool {
	moves, err := b.PossibleMoves(b.FoxIndex())
	return err == nil && len(moves) == 0
}

// IsGoal reports whether either side has won
func (b *BoardState) IsGoal() bool {
	return b.FoxWins() || b.DogWins()
}

// Winner returns the winning side once the board is in a goal state
func (b *BoardState) Winner() (PieceType, bool) {
	switch {
	case b.FoxWins():
		return Fox, true
	case b.DogWins():
		return Dog, true
	}
	return "", false
}

// Clone returns a fully independent copy of the board
func (b *BoardState) Clone() *BoardState {
	clone := *b
	return &clone
}

// Equal reports whether both boards hold the same pieces in the same order
// with the same side to move.
func (b *BoardState) Equal(other *BoardState) bool {
	if other == nil {
		return false
	}
	return b.toMove == other.toMove && b.pieces == other.pieces
}

// String renders the board as {DOG, [FOX: (0,2)], [DOG: (7,1)], ...}
func (b *BoardState) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	sb.WriteString(string(b.toMove))
	for _, piece := range b.pieces {
		sb.WriteString(", [")
		sb.WriteString(piece.String())
		sb.WriteString("]")
	}
	sb.WriteString("}")
	return sb.String()
}

func (b *BoardState) checkIndex(index int) error {
	if index < 0 || index >= len(b.pieces) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d not in [0,%d)", index, len(b.pieces))
	}
	return nil
}
