// Package store defines the persistence interfaces for the placar server.
// Implementations live in the sqlite and postgres subpackages.
package store

import (
	"context"
	"time"

	"github.com/placarapp/placar-server/internal/domain"
)

// ScoreStore persists completed play sessions. Records are append-only.
type ScoreStore interface {
	// InsertScore appends a record; the store assigns ID and CreatedAt.
	InsertScore(ctx context.Context, userID string, score int) (*domain.ScoreRecord, error)
	// ListScores returns every record ordered by score desc, id asc.
	ListScores(ctx context.Context) ([]domain.ScoreRecord, error)
	// ListScoresByUser returns the user's records in the same order.
	ListScoresByUser(ctx context.Context, userID string) ([]domain.ScoreRecord, error)
	// BestScore returns the user's highest score, or 0 without records.
	BestScore(ctx context.Context, userID string) (int, error)
	CountScores(ctx context.Context) (int, error)
}

// UserStore persists player accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	// DeleteUser removes the user with its sessions and scores.
	DeleteUser(ctx context.Context, id string) error
}

// SessionStore persists refresh sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	// DeleteExpiredSessions removes sessions expired before now and returns how many.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// Store defines the interface for all persistence operations.
type Store interface {
	ScoreStore
	UserStore
	SessionStore

	// Ping checks the backing database is reachable.
	Ping(ctx context.Context) error
	Close() error
}
