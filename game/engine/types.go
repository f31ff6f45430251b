package engine

// PieceType identifies the side a piece belongs to
type PieceType string

const (
	Fox PieceType = "FOX"
	Dog PieceType = "DOG"

	// Board geometry and piece counts are fixed by the rules
	BoardSize  = 8
	PieceCount = 5
	DogCount   = PieceCount - 1
)

// IsValid reports whether t is one of the two known piece types
func (t PieceType) IsValid() bool {
	switch t {
	case Fox, Dog:
		return true
	}
	return false
}

// Opponent returns the other side
func (t PieceType) Opponent() PieceType {
	if t == Fox {
		return Dog
	}
	return Fox
}

// Directions returns the directions a piece of this type may ever take,
// in the order they are tested for possible moves.
func (t PieceType) Directions() []Direction {
	switch t {
	case Fox:
		return []Direction{UpLeft, UpRight, DownLeft, DownRight}
	case Dog:
		return []Direction{UpLeft, UpRight}
	}
	return nil
}

// Symbol is the single-character board rendering of the type
func (t PieceType) Symbol() string {
	switch t {
	case Fox:
		return "F"
	case Dog:
		return "D"
	}
	return "?"
}

// Piece is a typed piece standing on a square. Pieces are plain values, so
// copying one never shares its position with the original.
type Piece struct {
	Type     PieceType `json:"type"`
	Position Position  `json:"position"`
}

// NewPiece creates a piece of the given type at (row, col)
func NewPiece(pieceType PieceType, row, col int) Piece {
	return Piece{Type: pieceType, Position: Position{Row: row, Col: col}}
}

func (p Piece) String() string {
	return string(p.Type) + ": " + p.Position.String()
}

// PiecePlacement is one entry of a layout file
type PiecePlacement struct {
	Type PieceType `json:"type" yaml:"type"`
	Row  int       `json:"row" yaml:"row"`
	Col  int       `json:"col" yaml:"col"`
}

// Layout describes a starting position loaded from a layout file
type Layout struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	ToMove      PieceType        `json:"to_move,omitempty" yaml:"to_move,omitempty"`
	Pieces      []PiecePlacement `json:"pieces" yaml:"pieces"`
}

// PieceView is a piece as reported to clients
type PieceView struct {
	Index         int         `json:"index"`
	Type          PieceType   `json:"type"`
	Row           int         `json:"row"`
	Col           int         `json:"col"`
	Movable       bool        `json:"movable"`
	PossibleMoves []Direction `json:"possible_moves"`
}

// GameState represents the complete client-facing game state
type GameState struct {
	LayoutName string      `json:"layout_name"`
	ToMove     PieceType   `json:"to_move"`
	Pieces     []PieceView `json:"pieces"`
	Board      []string    `json:"board"`
	MoveCount  int         `json:"move_count"`
	GameOver   bool        `json:"game_over"`
	FoxWins    bool        `json:"fox_wins"`
	DogWins    bool        `json:"dog_wins"`
	Winner     PieceType   `json:"winner,omitempty"`
	Message    string      `json:"message"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
}

// MoveHistoryEntry represents a single applied move
type MoveHistoryEntry struct {
	MoveNumber   int       `json:"move_number"`
	PieceIndex   int       `json:"piece_index"`
	PieceType    PieceType `json:"piece_type"`
	Direction    Direction `json:"direction"`
	FromPosition Position  `json:"from_position"`
	ToPosition   Position  `json:"to_position"`
	Timestamp    int64     `json:"timestamp"`
}
