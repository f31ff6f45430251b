package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/wricardo/foxcatcher/game/engine"
	"github.com/wricardo/foxcatcher/game/results"
)

// Player names used when a session is created without them
const (
	DefaultPlayerOne = "Player 1"
	DefaultPlayerTwo = "Player 2"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	layouts  LayoutManager
	results  results.Repository
	logger   *zap.Logger
	mu       sync.RWMutex

	movesApplied  atomic.Int64
	movesRejected atomic.Int64
	gamesFinished atomic.Int64
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, layouts LayoutManager, repo results.Repository, logger *zap.Logger) GameService {
	if repo == nil {
		repo = results.NewMemoryRepository()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		layouts:  layouts,
		results:  repo,
		logger:   logger.Named("service"),
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	layoutID := strings.TrimSpace(req.LayoutID)
	var layout *engine.Layout
	if layoutID != "" {
		var err error
		layout, err = s.layouts.LoadLayout(layoutID)
		if err != nil {
			if errors.Is(err, ErrLayoutNotFound) {
				return nil, s.layoutNotFound(layoutID, err)
			}
			return nil, errors.WithMessagef(err, "load layout %s", layoutID)
		}
	} else {
		layout = s.layouts.GetDefault()
		layoutID = s.layoutID(layout)
	}

	opts := SessionOptions{
		LayoutID:  layoutID,
		Layout:    layout,
		PlayerOne: playerName(req.PlayerOne, DefaultPlayerOne),
		PlayerTwo: playerName(req.PlayerTwo, DefaultPlayerTwo),
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", opts)
	if err != nil {
		return nil, errors.WithMessage(err, "create session")
	}

	s.logger.Info("session created",
		zap.String("session", sess.ID),
		zap.String("layout", layoutID),
		zap.String("dogs", sess.PlayerOne),
		zap.String("fox", sess.PlayerTwo),
	)
	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// Move moves the piece at pieceIndex one square in direction. A move the
// rules reject is reported with Success false, not as an error.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, pieceIndex int, direction string, reset bool) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		s.resetSession(sess)
		events = append(events, GameEvent{
			Type:      EventReset,
			Message:   "Game reset to starting layout",
			Timestamp: time.Now(),
		})
	}

	ok, err := sess.Engine.Move(pieceIndex, dir)
	if err != nil {
		return nil, err
	}
	return s.finishMove(ctx, sess, ok, events), nil
}

// MoveFrom moves the piece standing on from to the diagonal neighbour to
func (s *gameServiceImpl) MoveFrom(ctx context.Context, sessionID string, from, to engine.Position) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	ok, err := sess.Engine.MoveFrom(from, to)
	if err != nil {
		return nil, err
	}
	return s.finishMove(ctx, sess, ok, []GameEvent{}), nil
}

// Reset starts a new game on the session's layout
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)

	state := s.resetSession(sess)
	s.persist(sess)
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetPossibleMoves lists the directions the piece at pieceIndex could take
// if it were its side's turn.
func (s *gameServiceImpl) GetPossibleMoves(ctx context.Context, sessionID string, pieceIndex int) (*PossibleMoves, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	board := sess.Engine.Board()
	piece, err := board.PieceAt(pieceIndex)
	if err != nil {
		return nil, err
	}
	directions, err := board.PossibleMoves(pieceIndex)
	if err != nil {
		return nil, err
	}

	targets := make([]engine.Position, 0, len(directions))
	for _, d := range directions {
		targets = append(targets, piece.Position.Translated(d))
	}

	return &PossibleMoves{
		PieceIndex: pieceIndex,
		PieceType:  piece.Type,
		Position:   piece.Position,
		ToMove:     board.ToMove(),
		Movable:    piece.Type == board.ToMove() && !board.IsGoal() && len(directions) > 0,
		Directions: directions,
		Targets:    targets,
	}, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return paginateHistory(sess.Engine.GetMoveHistory(), opts), nil
}

// ListLayouts returns available starting layouts
func (s *gameServiceImpl) ListLayouts(ctx context.Context) ([]*LayoutInfo, error) {
	return s.layouts.ListLayouts()
}

// LoadLayout loads a specific starting layout
func (s *gameServiceImpl) LoadLayout(ctx context.Context, layoutID string) (*engine.Layout, error) {
	return s.layouts.LoadLayout(layoutID)
}

// SaveLayout validates and stores a starting layout
func (s *gameServiceImpl) SaveLayout(ctx context.Context, layoutID string, layout *engine.Layout) error {
	if err := s.layouts.SaveLayout(layoutID, layout); err != nil {
		return err
	}
	s.logger.Info("layout saved", zap.String("layout", layoutID))
	return nil
}

// Leaderboard returns the best recorded games, fewest moves first
func (s *gameServiceImpl) Leaderboard(ctx context.Context, limit int) ([]*results.GameResult, error) {
	best, err := s.results.Best(ctx, limit)
	if err != nil {
		return nil, errors.WithMessage(err, "load best results")
	}
	return best, nil
}

// Stats returns process-wide counters
func (s *gameServiceImpl) Stats(ctx context.Context) Stats {
	return Stats{
		ActiveSessions: s.sessions.Count(),
		MovesApplied:   s.movesApplied.Load(),
		MovesRejected:  s.movesRejected.Load(),
		GamesFinished:  s.gamesFinished.Load(),
	}
}

// finishMove builds the move result, records the game once it is decided
// and persists the session. Must be called with s.mu held.
func (s *gameServiceImpl) finishMove(ctx context.Context, sess *Session, ok bool, events []GameEvent) *MoveResult {
	state := sess.Engine.GetState()
	result := &MoveResult{
		Success:   ok,
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}

	if !ok {
		s.movesRejected.Inc()
		result.Message = "Move not allowed: " + state.Message
		result.Events = append(result.Events, GameEvent{
			Type:      EventRejected,
			Message:   result.Message,
			Timestamp: time.Now(),
		})
		return result
	}

	s.movesApplied.Inc()
	result.Move = sess.Engine.GetLastMove()
	result.Events = append(result.Events, GameEvent{
		Type: EventMove,
		Message: fmt.Sprintf("%s %d moved %s to %s",
			result.Move.PieceType, result.Move.PieceIndex, result.Move.Direction, result.Move.ToPosition),
		Timestamp: time.Now(),
	})

	if state.GameOver {
		result.Events = append(result.Events, GameEvent{
			Type:      EventGameOver,
			Message:   state.Message,
			Timestamp: time.Now(),
		})
		result.Result = s.recordResult(ctx, sess, state)
	}

	s.persist(sess)
	return result
}

// recordResult stores the outcome of a decided game. A session records at
// most one result per game.
func (s *gameServiceImpl) recordResult(ctx context.Context, sess *Session, state *engine.GameState) *results.GameResult {
	if sess.ResultID != "" {
		return nil
	}

	res := results.NewGameResult(sess.PlayerOne, sess.PlayerTwo, state.FoxWins, state.MoveCount, time.Now())
	if err := s.results.Add(ctx, res); err != nil {
		s.logger.Error("failed to record game result", zap.String("session", sess.ID), zap.Error(err))
		return nil
	}

	sess.ResultID = res.ID
	s.gamesFinished.Inc()
	s.logger.Info("game finished",
		zap.String("session", sess.ID),
		zap.String("winner", res.Winner),
		zap.String("side", string(res.WinningSide)),
		zap.Int("moves", res.NumberOfMoves),
	)
	return res
}

func (s *gameServiceImpl) resetSession(sess *Session) *engine.GameState {
	sess.ResultID = ""
	return sess.Engine.Reset()
}

func (s *gameServiceImpl) persist(sess *Session) {
	if err := s.sessions.Save(sess.ID); err != nil {
		s.logger.Warn("failed to persist session", zap.String("session", sess.ID), zap.Error(err))
	}
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, errors.Wrapf(ErrSessionNotFound, "session %q", sessionID)
		}
		return nil, err
	}
	return sess, nil
}

// layoutID returns the identifier of a loaded layout, used for consistent
// API responses
func (s *gameServiceImpl) layoutID(layout *engine.Layout) string {
	if infos, err := s.layouts.ListLayouts(); err == nil {
		for _, info := range infos {
			if info.Name == layout.Name {
				return info.LayoutID
			}
		}
	}
	return engine.DefaultLayoutName
}

func (s *gameServiceImpl) layoutNotFound(layoutID string, err error) error {
	infos, listErr := s.layouts.ListLayouts()
	if listErr != nil || len(infos) == 0 {
		return errors.WithMessagef(err, "layout '%s' not found, use /api/layouts to list available layouts", layoutID)
	}
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.LayoutID)
	}
	return errors.WithMessagef(err, "layout '%s' not found, available layouts: %v", layoutID, ids)
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LayoutID:       sess.LayoutID,
		PlayerOne:      sess.PlayerOne,
		PlayerTwo:      sess.PlayerTwo,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		ResultID:       sess.ResultID,
	}
}

func playerName(name, fallback string) string {
	if name = strings.TrimSpace(name); name == "" {
		return fallback
	}
	return name
}

func paginateHistory(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}
