package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/placarapp/placar-server/internal/domain"
	"github.com/placarapp/placar-server/internal/store"
)

const sessionColumns = `id, user_id, refresh_token_hash, expires_at, created_at, last_seen_at,
	ip_address, user_agent`

func scanSession(row pgx.Row) (*domain.Session, error) {
	var (
		s         domain.Session
		ipAddress *string
		userAgent *string
	)
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.RefreshTokenHash,
		&s.ExpiresAt,
		&s.CreatedAt,
		&s.LastSeenAt,
		&ipAddress,
		&userAgent,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if ipAddress != nil {
		s.IPAddress = *ipAddress
	}
	if userAgent != nil {
		s.UserAgent = *userAgent
	}
	return &s, nil
}

// CreateSession inserts a new session.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (
			id, user_id, refresh_token_hash, expires_at, created_at, last_seen_at,
			ip_address, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		session.ID,
		session.UserID,
		session.RefreshTokenHash,
		session.ExpiresAt,
		session.CreatedAt,
		session.LastSeenAt,
		nullString(session.IPAddress),
		nullString(session.UserAgent),
	)
	return translate(err)
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return scanSession(s.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
}

// GetSessionByRefreshTokenHash retrieves the session holding a refresh token.
func (s *Store) GetSessionByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	return scanSession(s.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token_hash = $1`, tokenHash))
}

// UpdateSession rewrites the mutable fields of an existing session.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sessions SET
			refresh_token_hash = $1,
			expires_at = $2,
			last_seen_at = $3,
			ip_address = $4,
			user_agent = $5
		WHERE id = $6`,
		session.RefreshTokenHash,
		session.ExpiresAt,
		session.LastSeenAt,
		nullString(session.IPAddress),
		nullString(session.UserAgent),
		session.ID,
	)
	if err != nil {
		return translate(err)
	}
	return affectedOrNotFound(tag)
}

// DeleteSession performs a hard delete of a session by ID.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(tag)
}

// DeleteExpiredSessions deletes all sessions that expired before now.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
