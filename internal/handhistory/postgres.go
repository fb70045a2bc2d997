package handhistory

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lox/pokertable/internal/game"
)

//go:embed schema_postgres.sql
var postgresSchema string

// PostgresStore keeps records in PostgreSQL, with the full hand as JSONB and
// the action log as rows.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects and applies the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("handhistory: ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("handhistory: apply schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Save(ctx context.Context, rec *Record) error {
	if err := rec.validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("handhistory: encode %s: %w", rec.HandID, err)
	}
	sum := rec.Summarize()

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO hands (hand_id, table_id, started_at, completed_at, pot, winner, reason, payload)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (hand_id) DO NOTHING
		`, rec.HandID, rec.TableID, rec.StartedAt, rec.CompletedAt, sum.Pot, sum.Winner, sum.Reason, payload)
		if err != nil {
			return fmt.Errorf("handhistory: insert hand %s: %w", rec.HandID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for seq, a := range rec.Final.Actions {
			batch.Queue(`
				INSERT INTO actions (hand_id, seq, player_index, action_type, amount, street, timeout)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (hand_id, seq) DO NOTHING
			`, rec.HandID, seq, a.Player, a.Kind.String(), a.Amount, a.Street.String(), a.Timeout)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (s *PostgresStore) Get(ctx context.Context, handID string) (*Record, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM hands WHERE hand_id = $1`, handID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(handID)
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("handhistory: decode %s: %w", handID, err)
	}
	return &rec, nil
}

func (s *PostgresStore) Actions(ctx context.Context, handID string) ([]game.Action, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM hands WHERE hand_id = $1)`, handID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound(handID)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT player_index, action_type, amount, street, timeout
		  FROM actions
		 WHERE hand_id = $1
		 ORDER BY seq
	`, handID)
	if err != nil {
		return nil, err
	}
	actions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (game.Action, error) {
		var (
			a            game.Action
			kind, street string
		)
		if err := row.Scan(&a.Player, &kind, &a.Amount, &street, &a.Timeout); err != nil {
			return a, err
		}
		var err error
		if a.Kind, err = game.ParseActionKind(kind); err != nil {
			return a, err
		}
		a.Street, err = game.ParseStreet(street)
		return a, err
	})
	if err != nil {
		return nil, err
	}
	if actions == nil {
		actions = []game.Action{}
	}
	return actions, nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT payload FROM hands ORDER BY completed_at DESC, id DESC LIMIT $1
	`, listLimit(limit))
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Summary, error) {
		var payload []byte
		if err := row.Scan(&payload); err != nil {
			return Summary{}, err
		}
		var rec Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return Summary{}, err
		}
		return rec.Summarize(), nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Summary{}
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
