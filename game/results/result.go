package results

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/wricardo/foxcatcher/game/engine"
)

// DefaultBestLimit is the size of the ranked results table
const DefaultBestLimit = 15

var ErrInvalidResult = errors.New("invalid game result")

// GameResult is one finished game. PlayerOne controls the dogs and
// PlayerTwo controls the fox.
type GameResult struct {
	ID            string           `json:"id"`
	PlayerOne     string           `json:"player_one"`
	PlayerTwo     string           `json:"player_two"`
	Winner        string           `json:"winner"`
	WinningSide   engine.PieceType `json:"winning_side"`
	NumberOfMoves int              `json:"number_of_moves"`
	TimeOfPlay    time.Time        `json:"time_of_play"`
}

// Repository stores finished games
type Repository interface {
	Add(ctx context.Context, result *GameResult) error
	List(ctx context.Context) ([]*GameResult, error)
	Best(ctx context.Context, limit int) ([]*GameResult, error)
}

// NewGameResult builds the result of a decided game. The winner is the fox
// player when the fox broke through and the dog player otherwise.
func NewGameResult(playerOne, playerTwo string, foxWins bool, moves int, playedAt time.Time) *GameResult {
	result := &GameResult{
		ID:            uuid.NewString(),
		PlayerOne:     playerOne,
		PlayerTwo:     playerTwo,
		Winner:        playerOne,
		WinningSide:   engine.Dog,
		NumberOfMoves: moves,
		TimeOfPlay:    playedAt.UTC(),
	}
	if foxWins {
		result.Winner = playerTwo
		result.WinningSide = engine.Fox
	}
	return result
}

// Validate checks a result before it is stored
func (r *GameResult) Validate() error {
	if r == nil {
		return errors.Wrap(ErrInvalidResult, "result is nil")
	}
	if r.ID == "" {
		return errors.Wrap(ErrInvalidResult, "id is required")
	}
	if r.NumberOfMoves < 0 {
		return errors.Wrapf(ErrInvalidResult, "negative move count %d", r.NumberOfMoves)
	}
	if !r.WinningSide.IsValid() {
		return errors.Wrapf(ErrInvalidResult, "unknown winning side %q", r.WinningSide)
	}
	return nil
}

// SortBest orders results fewest moves first, most recent first on ties
func SortBest(list []*GameResult) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].NumberOfMoves != list[j].NumberOfMoves {
			return list[i].NumberOfMoves < list[j].NumberOfMoves
		}
		return list[i].TimeOfPlay.After(list[j].TimeOfPlay)
	})
}

// best returns the top limit results of list without modifying it
func best(list []*GameResult, limit int) []*GameResult {
	if limit <= 0 {
		limit = DefaultBestLimit
	}
	ranked := make([]*GameResult, len(list))
	copy(ranked, list)
	SortBest(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
