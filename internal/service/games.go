package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/placarapp/placar-server/internal/domain"
	domainerrors "github.com/placarapp/placar-server/internal/errors"
	"github.com/placarapp/placar-server/internal/game"
	"github.com/placarapp/placar-server/internal/metrics"
)

// GameService exposes play sessions to transports and keeps the active
// session gauge current.
type GameService struct {
	manager *game.Manager
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewGameService creates a game service over manager.
func NewGameService(manager *game.Manager, m *metrics.Metrics, logger *slog.Logger) *GameService {
	return &GameService{manager: manager, metrics: m, logger: logger}
}

// Start opens a new session for userID.
func (s *GameService) Start(_ context.Context, userID string, kind domain.GameKind, opts game.Options) (domain.GameSessionState, error) {
	session, err := s.manager.Start(userID, kind, opts)
	if err != nil {
		return domain.GameSessionState{}, err
	}
	s.updateGauge()

	s.logger.Debug("game session started",
		"session_id", session.ID(),
		"user_id", userID,
		"kind", kind,
	)
	return session.Snapshot(), nil
}

// State returns the current state of one of userID's sessions.
func (s *GameService) State(_ context.Context, userID, sessionID string) (domain.GameSessionState, error) {
	session, err := s.manager.Get(sessionID, userID)
	if err != nil {
		return domain.GameSessionState{}, gameError(err)
	}
	return session.Snapshot(), nil
}

// Click applies one clicker input.
func (s *GameService) Click(_ context.Context, userID, sessionID string) (domain.GameSessionState, error) {
	session, err := s.manager.Get(sessionID, userID)
	if err != nil {
		return domain.GameSessionState{}, gameError(err)
	}
	if err := session.Act(game.ActionClick); err != nil {
		return domain.GameSessionState{}, gameError(err)
	}
	return session.Snapshot(), nil
}

// Finish ends a session and records its score.
func (s *GameService) Finish(ctx context.Context, userID, sessionID string) (*domain.SessionResult, error) {
	session, err := s.manager.Get(sessionID, userID)
	if err != nil {
		return nil, gameError(err)
	}

	result, err := session.Finish(ctx)
	if err != nil {
		return nil, gameError(err)
	}
	s.updateGauge()

	s.logger.Info("game session finished",
		"session_id", sessionID,
		"user_id", userID,
		"kind", session.Kind(),
		"score", result.Score,
		"new_record", result.IsNewRecord,
	)
	return result, nil
}

// Sweep drops idle sessions and returns how many were removed.
func (s *GameService) Sweep(now time.Time) int {
	removed := s.manager.Sweep(now)
	s.updateGauge()
	if removed > 0 {
		s.logger.Debug("swept idle game sessions", "count", removed)
	}
	return removed
}

// Active returns the number of sessions still in play.
func (s *GameService) Active() int {
	return s.manager.Running()
}

func (s *GameService) updateGauge() {
	s.metrics.GameSessionsActive.Set(float64(s.manager.Running()))
}

// gameError translates game package errors into domain errors.
func gameError(err error) error {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return domainerrors.NotFound("game session not found")
	case errors.Is(err, game.ErrSessionOver):
		return domainerrors.Conflict("game session time is over").WithCause(err)
	case errors.Is(err, game.ErrSessionRunning):
		return domainerrors.Conflict("game session is still running").WithCause(err)
	case errors.Is(err, game.ErrSessionFinished):
		return domainerrors.Conflict("game session already finished").WithCause(err)
	case errors.Is(err, game.ErrUnknownAction):
		return domainerrors.Validation("action not supported by this game").WithCause(err)
	default:
		return err
	}
}
