package engine

import "strings"

// RenderBoard draws the board as BoardSize text rows, F for the fox, D for
// dogs and '.' for empty squares.
func RenderBoard(board *BoardState) []string {
	rows := make([]string, BoardSize)
	for r := 0; r < BoardSize; r++ {
		var sb strings.Builder
		for c := 0; c < BoardSize; c++ {
			if i, ok := board.IndexAt(Position{Row: r, Col: c}); ok {
				sb.WriteString(board.pieces[i].Type.Symbol())
			} else {
				sb.WriteString(".")
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

// BuildPieceViews describes every piece with its currently possible moves
func BuildPieceViews(board *BoardState) []PieceView {
	views := make([]PieceView, 0, board.PieceCount())
	for i, piece := range board.pieces {
		moves, _ := board.PossibleMoves(i)
		views = append(views, PieceView{
			Index:         i,
			Type:          piece.Type,
			Row:           piece.Position.Row,
			Col:           piece.Position.Col,
			Movable:       piece.Type == board.toMove && len(moves) > 0,
			PossibleMoves: moves,
		})
	}
	return views
}

// StatusMessage summarizes the board for humans
func StatusMessage(board *BoardState) string {
	switch winner, ok := board.Winner(); {
	case ok && winner == Fox:
		return "The fox slipped past every dog. Fox wins!"
	case ok && winner == Dog:
		return "The fox is surrounded. Dogs win!"
	case board.ToMove() == Fox:
		return "Fox to move"
	default:
		return "Dogs to move"
	}
}
