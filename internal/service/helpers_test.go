package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/placarapp/placar-server/internal/auth"
	"github.com/placarapp/placar-server/internal/domain"
	"github.com/placarapp/placar-server/internal/metrics"
	"github.com/placarapp/placar-server/internal/store"
	"github.com/placarapp/placar-server/internal/store/sqlite"
	"github.com/placarapp/placar-server/internal/validation"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "placar.db"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type authFixture struct {
	store    *sqlite.Store
	tokens   *auth.TokenService
	sessions *SessionService
	auth     *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	s := newTestStore(t)
	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(key, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(s, tokens, discardLogger())
	return &authFixture{
		store:    s,
		tokens:   tokens,
		sessions: sessions,
		auth:     NewAuthService(s, tokens, sessions, validation.New(), discardLogger()),
	}
}

// brokenScoreStore fails every call, standing in for an unreachable database.
type brokenScoreStore struct{}

var errBroken = errors.New("connection refused")

func (brokenScoreStore) InsertScore(context.Context, string, int) (*domain.ScoreRecord, error) {
	return nil, errBroken
}

func (brokenScoreStore) ListScores(context.Context) ([]domain.ScoreRecord, error) {
	return nil, errBroken
}

func (brokenScoreStore) ListScoresByUser(context.Context, string) ([]domain.ScoreRecord, error) {
	return nil, errBroken
}

func (brokenScoreStore) BestScore(context.Context, string) (int, error) { return 0, errBroken }

func (brokenScoreStore) CountScores(context.Context) (int, error) { return 0, errBroken }

var _ store.ScoreStore = brokenScoreStore{}

// sessionlessStore refuses to save sessions and delegates everything else.
type sessionlessStore struct {
	*sqlite.Store
}

func (sessionlessStore) CreateSession(context.Context, *domain.Session) error {
	return errBroken
}

func newScoreService(t *testing.T, s store.ScoreStore) (*ScoreService, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	return NewScoreService(s, m, discardLogger()), m
}

func mustCreateUser(t *testing.T, s store.UserStore, userID string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, s.CreateUser(context.Background(), &domain.User{
		ID:           userID,
		Email:        userID + "@placar.test",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
}
