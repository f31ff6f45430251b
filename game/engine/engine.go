package engine

import (
	"time"

	"github.com/pkg/errors"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Board() *BoardState
	Restore(snapshot BoardSnapshot, history []MoveHistoryEntry) error
	Reset() *GameState
	IsGameOver() bool
	Winner() (PieceType, bool)
	MoveCount() int

	// Movement operations
	Move(index int, direction Direction) (bool, error)
	MoveFrom(from, to Position) (bool, error)
	CanMove(index int, direction Direction) (bool, error)
	PossibleMoves(index int) ([]Direction, error)

	// Layout
	GetLayout() *Layout

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface on top of a single BoardState
type GameEngine struct {
	board   *BoardState
	layout  *Layout
	history []MoveHistoryEntry
}

// NewEngine creates a new game engine starting from the provided layout
func NewEngine(layout *Layout) (*GameEngine, error) {
	if err := ValidateLayout(layout); err != nil {
		return nil, err
	}
	board, err := layout.NewBoard()
	if err != nil {
		return nil, err
	}
	return &GameEngine{
		board:   board,
		layout:  layout,
		history: []MoveHistoryEntry{},
	}, nil
}

// NewEngineWithDefaults creates a new game engine on the canonical layout
func NewEngineWithDefaults() *GameEngine {
	return &GameEngine{
		board:   NewInitialBoardState(),
		layout:  DefaultLayout(),
		history: []MoveHistoryEntry{},
	}
}

// GetState returns a fresh view of the current game state
func (e *GameEngine) GetState() *GameState {
	state := &GameState{
		LayoutName:  e.layout.Name,
		ToMove:      e.board.ToMove(),
		Pieces:      BuildPieceViews(e.board),
		Board:       RenderBoard(e.board),
		MoveCount:   len(e.history),
		FoxWins:     e.board.FoxWins(),
		DogWins:     e.board.DogWins(),
		Message:     StatusMessage(e.board),
		MoveHistory: e.GetMoveHistory(),
	}
	if winner, ok := e.board.Winner(); ok {
		state.GameOver = true
		state.Winner = winner
	}
	return state
}

// Board returns an independent copy of the live board
func (e *GameEngine) Board() *BoardState {
	return e.board.Clone()
}

// Restore replaces the board and history (used for persistence loading)
func (e *GameEngine) Restore(snapshot BoardSnapshot, history []MoveHistoryEntry) error {
	board, err := BoardStateFromSnapshot(snapshot)
	if err != nil {
		return errors.WithMessage(err, "restore board")
	}
	e.board = board
	e.history = append([]MoveHistoryEntry{}, history...)
	return nil
}

// Reset starts a new game from the engine's layout
func (e *GameEngine) Reset() *GameState {
	board, err := e.layout.NewBoard()
	if err != nil {
		// layouts are validated in NewEngine
		board = NewInitialBoardState()
	}
	e.board = board
	e.history = []MoveHistoryEntry{}
	return e.GetState()
}

// IsGameOver returns whether a goal state has been reached
func (e *GameEngine) IsGameOver() bool {
	return e.board.IsGoal()
}

// Winner returns the winning side once the game is over
func (e *GameEngine) Winner() (PieceType, bool) {
	return e.board.Winner()
}

// MoveCount returns the number of moves applied since the last reset
func (e *GameEngine) MoveCount() int {
	return len(e.history)
}

// Move attempts to move the piece at index. The boolean reports whether the
// board accepted the move; no move is accepted once the game is over.
func (e *GameEngine) Move(index int, direction Direction) (bool, error) {
	ok, err := e.board.CanMove(index, direction)
	if err != nil {
		return false, err
	}
	if !ok || e.board.IsGoal() {
		return false, nil
	}

	piece := e.board.pieces[index]
	if err := e.board.Move(index, direction); err != nil {
		return false, err
	}
	e.history = append(e.history, MoveHistoryEntry{
		MoveNumber:   len(e.history) + 1,
		PieceIndex:   index,
		PieceType:    piece.Type,
		Direction:    direction,
		FromPosition: piece.Position,
		ToPosition:   piece.Position.Translated(direction),
		Timestamp:    time.Now().Unix(),
	})
	return true, nil
}

// MoveFrom moves whatever piece stands on from to the diagonally adjacent
// square to. An empty source square is a rejected move, not an error.
func (e *GameEngine) MoveFrom(from, to Position) (bool, error) {
	direction, err := DirectionBetween(from, to)
	if err != nil {
		return false, err
	}
	index, ok := e.board.IndexAt(from)
	if !ok {
		return false, nil
	}
	return e.Move(index, direction)
}

// CanMove checks if the piece at index can move in the given direction
func (e *GameEngine) CanMove(index int, direction Direction) (bool, error) {
	if e.board.IsGoal() {
		if err := e.board.checkIndex(index); err != nil {
			return false, err
		}
		return false, nil
	}
	return e.board.CanMove(index, direction)
}

// PossibleMoves returns the directions the piece at index could take
func (e *GameEngine) PossibleMoves(index int) ([]Direction, error) {
	return e.board.PossibleMoves(index)
}

// GetLayout returns the starting layout
func (e *GameEngine) GetLayout() *Layout {
	return e.layout
}

// GetMoveHistory returns a copy of the moves applied since the last reset
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return append([]MoveHistoryEntry{}, e.history...)
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}
