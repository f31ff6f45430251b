package results

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wricardo/foxcatcher/game/engine"
)

const schema = `CREATE TABLE IF NOT EXISTS game_results (
	id              TEXT PRIMARY KEY,
	player_one      TEXT NOT NULL,
	player_two      TEXT NOT NULL,
	winner          TEXT NOT NULL,
	winning_side    TEXT NOT NULL,
	number_of_moves INTEGER NOT NULL,
	time_of_play    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_results_rank
	ON game_results (number_of_moves ASC, time_of_play DESC);`

// SQLiteRepository stores results in the game_results table
type SQLiteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteRepository opens (creating if needed) the database at dsn and
// applies the schema.
func NewSQLiteRepository(dsn string, logger *zap.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "mkdir %s", dir)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}

	logger.Info("sqlite results store ready", zap.String("dsn", dsn))
	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Add(ctx context.Context, result *GameResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO game_results
			(id, player_one, player_two, winner, winning_side, number_of_moves, time_of_play)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.PlayerOne, result.PlayerTwo, result.Winner,
		string(result.WinningSide), result.NumberOfMoves, result.TimeOfPlay.UnixNano(),
	)
	if err != nil {
		return errors.Wrap(err, "insert game result")
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*GameResult, error) {
	return r.query(ctx, `
		SELECT id, player_one, player_two, winner, winning_side, number_of_moves, time_of_play
		FROM game_results
		ORDER BY time_of_play ASC`)
}

func (r *SQLiteRepository) Best(ctx context.Context, limit int) ([]*GameResult, error) {
	if limit <= 0 {
		limit = DefaultBestLimit
	}
	return r.query(ctx, `
		SELECT id, player_one, player_two, winner, winning_side, number_of_moves, time_of_play
		FROM game_results
		ORDER BY number_of_moves ASC, time_of_play DESC
		LIMIT ?`, limit)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]*GameResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query game results")
	}
	defer rows.Close()

	out := []*GameResult{}
	for rows.Next() {
		var (
			res    GameResult
			side   string
			played int64
		)
		if err := rows.Scan(&res.ID, &res.PlayerOne, &res.PlayerTwo, &res.Winner, &side, &res.NumberOfMoves, &played); err != nil {
			return nil, errors.Wrap(err, "scan game result")
		}
		res.WinningSide = engine.PieceType(side)
		res.TimeOfPlay = time.Unix(0, played).UTC()
		out = append(out, &res)
	}
	return out, errors.Wrap(rows.Err(), "iterate game results")
}
