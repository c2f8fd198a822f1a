package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "blackjack_local.db"

type SQLiteService struct {
	db          *sql.DB
	recentLimit int
}

func NewSQLiteServiceFromEnv() (*SQLiteService, error) {
	dbPath, err := storeLocalDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteService(dbPath)
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteStoreSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{
		db:          db,
		recentLimit: envIntOrDefault("HISTORY_RECENT_LIMIT", defaultRecentLimit),
	}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) LoadState(ctx context.Context, accountID uint64) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `
SELECT state
FROM game_states
WHERE account_id = ?
`, accountID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return blob, nil
}

func (s *SQLiteService) SaveState(ctx context.Context, accountID uint64, blob []byte) error {
	nowMs := time.Now().UTC().UnixMilli()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO game_states (account_id, state, updated_at_ms)
VALUES (?, ?, ?)
ON CONFLICT (account_id) DO UPDATE
SET state = EXCLUDED.state,
    updated_at_ms = EXCLUDED.updated_at_ms
`, accountID, blob, nowMs)
	return err
}

func (s *SQLiteService) ClearState(ctx context.Context, accountID uint64) error {
	_, err := s.db.ExecContext(ctx, `
DELETE FROM game_states
WHERE account_id = ?
`, accountID)
	return err
}

func (s *SQLiteService) AppendRound(ctx context.Context, accountID uint64, rec RoundRecord) error {
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
    account_id, played_at_ms, outcome, message, bet, pot_after, player_total, dealer_total
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, accountID, rec.PlayedAt.UnixMilli(), rec.Outcome, rec.Message, rec.Bet, rec.PotAfter, rec.PlayerTotal, rec.DealerTotal); err != nil {
		return err
	}

	if s.recentLimit > 0 {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM round_history
WHERE account_id = ?
  AND id IN (
      SELECT id
      FROM round_history
      WHERE account_id = ?
      ORDER BY played_at_ms DESC, id DESC
      LIMIT -1 OFFSET ?
  )
`, accountID, accountID, s.recentLimit); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteService) ListRecent(ctx context.Context, accountID uint64, limit int) ([]RoundRecord, error) {
	limit = clampLimit(limit)

	rows, err := s.db.QueryContext(ctx, `
SELECT played_at_ms, outcome, message, bet, pot_after, player_total, dealer_total
FROM round_history
WHERE account_id = ?
ORDER BY played_at_ms DESC, id DESC
LIMIT ?
`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]RoundRecord, 0, limit)
	for rows.Next() {
		var rec RoundRecord
		var playedAtMs int64
		if err := rows.Scan(&playedAtMs, &rec.Outcome, &rec.Message, &rec.Bet, &rec.PotAfter, &rec.PlayerTotal, &rec.DealerTotal); err != nil {
			return nil, err
		}
		rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		items = append(items, rec)
	}
	return items, rows.Err()
}

func ensureSQLiteStoreSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS game_states (
    account_id INTEGER PRIMARY KEY,
    state BLOB NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS round_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id INTEGER NOT NULL,
    played_at_ms INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    bet INTEGER NOT NULL,
    pot_after INTEGER NOT NULL,
    player_total INTEGER NOT NULL,
    dealer_total INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_round_history_account ON round_history(account_id, played_at_ms DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func storeLocalDatabasePathFromEnv() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("STORE_LOCAL_DATABASE_PATH")),
		strings.TrimSpace(os.Getenv("LOCAL_DATABASE_PATH")),
	}
	for _, candidate := range candidates {
		if candidate != "" {
			return filepath.Clean(candidate), nil
		}
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "BlackjackLite", defaultLocalDBName), nil
}
