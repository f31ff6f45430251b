// Package engine provides the rules of Fox Catcher.
//
// The game is played on an 8x8 board by one fox against four dogs. Pieces
// move one square diagonally; dogs may only move towards row 0, the fox may
// move in all four diagonal directions. The sides alternate, dogs first.
// The fox wins once it stands on a higher row than every dog, the dogs win
// once the fox has no square left to move to.
//
// Core Types:
//
// BoardState owns the five pieces and the side to move. It enforces its
// invariants at construction (five pieces, exactly one fox, distinct squares
// on the board) and exposes legality checks, moves and goal detection.
// GameEngine wraps a BoardState with the starting Layout, a move history and
// reset support; it is what sessions hold.
//
// Usage:
//
//	board := engine.NewInitialBoardState()
//	if ok, _ := board.CanMove(1, engine.UpRight); ok {
//		_ = board.Move(1, engine.UpRight)
//	}
//	if board.IsGoal() {
//		winner, _ := board.Winner()
//		fmt.Println(winner, "wins")
//	}
//
// Illegal moves:
//
// BoardState.Move silently ignores a move that CanMove rejects. Only an
// out-of-range piece index or an undefined direction is reported as an error.
// Note also that IsSquareEmpty reports off-board squares as empty.
package engine
