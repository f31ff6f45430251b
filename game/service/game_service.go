package service

import (
	"context"
	"time"

	"github.com/wricardo/foxcatcher/game/engine"
	"github.com/wricardo/foxcatcher/game/results"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, pieceIndex int, direction string, reset bool) (*MoveResult, error)
	MoveFrom(ctx context.Context, sessionID string, from, to engine.Position) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetPossibleMoves(ctx context.Context, sessionID string, pieceIndex int) (*PossibleMoves, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Layouts
	ListLayouts(ctx context.Context) ([]*LayoutInfo, error)
	LoadLayout(ctx context.Context, layoutID string) (*engine.Layout, error)
	SaveLayout(ctx context.Context, layoutID string, layout *engine.Layout) error

	// Results
	Leaderboard(ctx context.Context, limit int) ([]*results.GameResult, error)
	Stats(ctx context.Context) Stats
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, opts SessionOptions) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, opts SessionOptions) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
	Count() int
}

// LayoutManager handles starting layout loading
type LayoutManager interface {
	LoadLayout(id string) (*engine.Layout, error)
	ListLayouts() ([]*LayoutInfo, error)
	GetDefault() *engine.Layout
	SaveLayout(id string, layout *engine.Layout) error
}

// Session represents an active game session
type Session struct {
	ID             string
	PlayerOne      string
	PlayerTwo      string
	LayoutID       string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// ResultID is set once the finished game has been recorded
	ResultID string
}
