package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/placarapp/placar-server/internal/auth"
	"github.com/placarapp/placar-server/internal/game"
	"github.com/placarapp/placar-server/internal/metrics"
	"github.com/placarapp/placar-server/internal/service"
	"github.com/placarapp/placar-server/internal/store/sqlite"
	"github.com/placarapp/placar-server/internal/validation"
)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api     humatest.TestAPI
	store   *sqlite.Store
	metrics *metrics.Metrics
	games   *game.Manager
	now     time.Time
}

// testEnvelope mirrors both envelope shapes for decoding.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

func defaultTestOptions() Options {
	return Options{AuthPerMinute: 1000, ScoresPerMinute: 1000}
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	tmpDir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(tmpDir, "placar.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	m := metrics.New()
	opts.Metrics = m

	sessions := service.NewSessionService(st, tokens, logger)
	scores := service.NewScoreService(st, m, logger)

	ts := &testServer{store: st, metrics: m, now: time.Now()}
	ts.games = game.NewManager(scores.ForGame, 10*time.Minute)
	ts.games.SetClock(func() time.Time { return ts.now })

	services := &Services{
		Auth:   service.NewAuthService(st, tokens, sessions, validation.New(), logger),
		Scores: scores,
		Games:  service.NewGameService(ts.games, m, logger),
	}

	ts.Server = NewServer(st, services, opts, logger)
	t.Cleanup(ts.Server.Shutdown)
	ts.api = humatest.Wrap(t, ts.Server.api)
	return ts
}

func decode[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	return env
}

// signUp creates an account and returns its access token and user ID.
func (ts *testServer) signUp(t *testing.T, email string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":    email,
		"password": "segredo123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "signup failed: %s", resp.Body.String())

	env := decode[AuthResponse](t, resp.Body.Bytes())
	return env.Data.AccessToken, env.Data.User.ID
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}
