package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

type PostgresService struct {
	db          *sql.DB
	recentLimit int
}

func NewPostgresServiceFromEnv() (*PostgresService, error) {
	return NewPostgresService(storeDSNFromEnv())
}

func NewPostgresService(dsn string) (*PostgresService, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensurePostgresStoreSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &PostgresService{
		db:          db,
		recentLimit: envIntOrDefault("HISTORY_RECENT_LIMIT", defaultRecentLimit),
	}, nil
}

func (s *PostgresService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresService) LoadState(ctx context.Context, accountID uint64) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `
SELECT state
FROM game_states
WHERE account_id = $1
`, accountID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return blob, nil
}

func (s *PostgresService) SaveState(ctx context.Context, accountID uint64, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO game_states (account_id, state, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (account_id) DO UPDATE
SET state = EXCLUDED.state,
    updated_at = NOW()
`, accountID, blob)
	return err
}

func (s *PostgresService) ClearState(ctx context.Context, accountID uint64) error {
	_, err := s.db.ExecContext(ctx, `
DELETE FROM game_states
WHERE account_id = $1
`, accountID)
	return err
}

func (s *PostgresService) AppendRound(ctx context.Context, accountID uint64, rec RoundRecord) error {
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO round_history (
    account_id, played_at, outcome, message, bet, pot_after, player_total, dealer_total
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, accountID, rec.PlayedAt, rec.Outcome, rec.Message, rec.Bet, rec.PotAfter, rec.PlayerTotal, rec.DealerTotal); err != nil {
		return err
	}

	if s.recentLimit > 0 {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM round_history
WHERE account_id = $1
  AND id IN (
      SELECT id
      FROM round_history
      WHERE account_id = $1
      ORDER BY played_at DESC, id DESC
      OFFSET $2
  )
`, accountID, s.recentLimit); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresService) ListRecent(ctx context.Context, accountID uint64, limit int) ([]RoundRecord, error) {
	limit = clampLimit(limit)

	rows, err := s.db.QueryContext(ctx, `
SELECT played_at, outcome, message, bet, pot_after, player_total, dealer_total
FROM round_history
WHERE account_id = $1
ORDER BY played_at DESC, id DESC
LIMIT $2
`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]RoundRecord, 0, limit)
	for rows.Next() {
		var rec RoundRecord
		if err := rows.Scan(&rec.PlayedAt, &rec.Outcome, &rec.Message, &rec.Bet, &rec.PotAfter, &rec.PlayerTotal, &rec.DealerTotal); err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

func ensurePostgresStoreSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS game_states (
    account_id BIGINT PRIMARY KEY,
    state BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
		`
CREATE TABLE IF NOT EXISTS round_history (
    id BIGSERIAL PRIMARY KEY,
    account_id BIGINT NOT NULL,
    played_at TIMESTAMPTZ NOT NULL,
    outcome TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    bet INTEGER NOT NULL,
    pot_after INTEGER NOT NULL,
    player_total INTEGER NOT NULL,
    dealer_total INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_round_history_account ON round_history(account_id, played_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
