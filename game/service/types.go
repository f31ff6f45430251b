package service

import (
	"time"

	"github.com/wricardo/foxcatcher/game/engine"
	"github.com/wricardo/foxcatcher/game/results"
)

// CreateSessionRequest describes a new game. PlayerOne plays the dogs and
// PlayerTwo plays the fox.
type CreateSessionRequest struct {
	LayoutID  string `json:"layout_id,omitempty"`
	PlayerOne string `json:"player_one,omitempty"`
	PlayerTwo string `json:"player_two,omitempty"`
}

// SessionOptions is what the session manager needs to start a game
type SessionOptions struct {
	LayoutID  string
	Layout    *engine.Layout
	PlayerOne string
	PlayerTwo string
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	LayoutID       string            `json:"layout_id"`
	PlayerOne      string            `json:"player_one"`
	PlayerTwo      string            `json:"player_two"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
	ResultID       string            `json:"result_id,omitempty"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool                     `json:"success"`
	GameState *engine.GameState        `json:"game_state"`
	Message   string                   `json:"message"`
	Move      *engine.MoveHistoryEntry `json:"move,omitempty"`
	Events    []GameEvent              `json:"events,omitempty"`
	Result    *results.GameResult      `json:"result,omitempty"`
}

// Game event types
const (
	EventMove     = "move"
	EventReset    = "reset"
	EventRejected = "rejected"
	EventGameOver = "game_over"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// PossibleMoves lists where one piece could go
type PossibleMoves struct {
	PieceIndex int                `json:"piece_index"`
	PieceType  engine.PieceType   `json:"piece_type"`
	Position   engine.Position    `json:"position"`
	ToMove     engine.PieceType   `json:"to_move"`
	Movable    bool               `json:"movable"`
	Directions []engine.Direction `json:"directions"`
	Targets    []engine.Position  `json:"targets"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// LayoutInfo provides information about a starting layout
type LayoutInfo struct {
	LayoutID    string           `json:"layout_id"` // The identifier to use for session creation
	Name        string           `json:"name"`
	Description string           `json:"description"`
	ToMove      engine.PieceType `json:"to_move"`
}

// Stats are process-wide counters
type Stats struct {
	ActiveSessions int   `json:"active_sessions"`
	MovesApplied   int64 `json:"moves_applied"`
	MovesRejected  int64 `json:"moves_rejected"`
	GamesFinished  int64 `json:"games_finished"`
}
