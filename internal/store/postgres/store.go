// Package postgres implements store.Store on PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/placarapp/placar-server/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// connectTimeout bounds pool creation, the first ping and the migration.
const connectTimeout = 5 * time.Second

// SQLSTATE codes we translate into store errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// Store provides PostgreSQL-backed persistence for the placar server.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	clock  *store.MonotonicClock

	// scoreMu serializes score inserts so ids and created_at agree on order.
	scoreMu sync.Mutex
}

var _ store.Store = (*Store)(nil)

// Open connects to databaseURL, verifies the connection and applies the schema.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	// Without arguments pgx uses the simple protocol, which accepts
	// several statements at once.
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	logger.Info("postgres store opened", "host", pool.Config().ConnConfig.Host)

	return &Store{
		pool:   pool,
		logger: logger,
		clock:  store.NewMonotonicClock(nil),
	}, nil
}

// SetClock replaces the time source used for created_at. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.clock = store.NewMonotonicClock(now)
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// translate maps constraint violations onto store sentinels.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		return store.ErrAlreadyExists.WithCause(err)
	case foreignKeyViolation, checkViolation:
		return store.ErrInvalidInput.WithCause(err)
	default:
		return err
	}
}

func affectedOrNotFound(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// nullTime maps the zero time to NULL.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// nullString maps the empty string to NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
