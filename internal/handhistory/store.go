// Package handhistory records completed hands and serves them back for
// listing, inspection and replay.
package handhistory

import (
	"context"
	"fmt"
	"strings"

	"github.com/lox/pokertable/internal/game"
)

const (
	// DefaultListLimit is used when List is called with a negative limit.
	DefaultListLimit = 10
	// MaxListLimit caps a single List call.
	MaxListLimit = 100
)

// Store persists completed hands. Saving a hand id that is already stored is
// a no-op: the first record wins.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, handID string) (*Record, error)
	Actions(ctx context.Context, handID string) ([]game.Action, error)
	// List returns at most limit hands, most recently completed first. A
	// negative limit means DefaultListLimit.
	List(ctx context.Context, limit int) ([]Summary, error)
	Close() error
}

// Open selects a store from a DSN:
//
//	""  or "memory"                     in-process memory
//	"sqlite://<path>" or "*.db"         SQLite file (":memory:" allowed)
//	"postgres://..." or "postgresql://" PostgreSQL
func Open(ctx context.Context, dsn string) (Store, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "" || dsn == "memory":
		return NewMemoryStore(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(ctx, dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasSuffix(dsn, ".db"), dsn == ":memory:":
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("handhistory: unsupported store %q", dsn)
	}
}

func notFound(handID string) error {
	return game.Errorf(game.ErrHandNotFound, "hand %s not found", handID)
}

func listLimit(limit int) int {
	if limit < 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
