package engine

import "fmt"

// Position is a (row, col) square. Row 0 is the fox's home edge.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// IsOnBoard reports whether the position lies on the 8x8 board
func (p Position) IsOnBoard() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Translated returns the position one step away in direction d. No bounds check.
func (p Position) Translated(d Direction) Position {
	dr, dc := d.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// TranslateBy moves p in place one step in direction d
func (p *Position) TranslateBy(d Direction) {
	dr, dc := d.Delta()
	p.Row += dr
	p.Col += dc
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}
