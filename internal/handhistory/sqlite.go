package handhistory

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/pokertable/internal/game"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLiteStore keeps records in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("handhistory: empty sqlite database path")
	}
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection serialises writers and keeps ":memory:" databases
	// alive for the life of the store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("handhistory: %s: %w", pragma, err)
		}
	}
	for _, stmt := range strings.Split(sqliteSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("handhistory: apply schema: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	if err := rec.validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("handhistory: encode %s: %w", rec.HandID, err)
	}
	sum := rec.Summarize()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
INSERT INTO hands (hand_id, table_id, started_at, completed_at, pot, winner, reason, payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (hand_id) DO NOTHING`,
		rec.HandID, rec.TableID, rec.StartedAt.UTC().UnixMilli(), rec.CompletedAt.UTC().UnixMilli(),
		sum.Pot, sum.Winner, sum.Reason, string(payload))
	if err != nil {
		return fmt.Errorf("handhistory: insert hand %s: %w", rec.HandID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}

	for seq, a := range rec.Final.Actions {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO actions (hand_id, seq, player_index, action_type, amount, street, timeout)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (hand_id, seq) DO NOTHING`,
			rec.HandID, seq, a.Player, a.Kind.String(), a.Amount, a.Street.String(), a.Timeout); err != nil {
			return fmt.Errorf("handhistory: insert action %d of %s: %w", seq, rec.HandID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Get(ctx context.Context, handID string) (*Record, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM hands WHERE hand_id = ?`, handID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(handID)
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("handhistory: decode %s: %w", handID, err)
	}
	return &rec, nil
}

func (s *SQLiteStore) Actions(ctx context.Context, handID string) ([]game.Action, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM hands WHERE hand_id = ?`, handID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(handID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT player_index, action_type, amount, street, timeout
FROM actions WHERE hand_id = ? ORDER BY seq`, handID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := []game.Action{}
	for rows.Next() {
		var (
			a            game.Action
			kind, street string
		)
		if err := rows.Scan(&a.Player, &kind, &a.Amount, &street, &a.Timeout); err != nil {
			return nil, err
		}
		if a.Kind, err = game.ParseActionKind(kind); err != nil {
			return nil, err
		}
		if a.Street, err = game.ParseStreet(street); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT payload FROM hands ORDER BY completed_at DESC, rowid DESC LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec.Summarize())
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
