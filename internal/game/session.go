package game

import (
	"context"
	"sync"
	"time"

	"github.com/placarapp/placar-server/internal/domain"
	"github.com/placarapp/placar-server/internal/ranking"
)

// Reporter is where a session sends its result.
type Reporter interface {
	UserStats(ctx context.Context, userID string) (*domain.RankingEntry, bool, error)
	RecordSessionResult(ctx context.Context, userID string, score int) (*domain.ScoreRecord, error)
}

// Session is one play session owned by the user who started it.
type Session struct {
	id        string
	userID    string
	startedAt time.Time
	engine    Engine
	reporter  Reporter
	now       func() time.Time

	mu         sync.Mutex
	lastActive time.Time
	result     *domain.SessionResult
}

func newSession(id, userID string, engine Engine, reporter Reporter, now func() time.Time, startedAt time.Time) *Session {
	return &Session{
		id:         id,
		userID:     userID,
		startedAt:  startedAt,
		engine:     engine,
		reporter:   reporter,
		now:        now,
		lastActive: startedAt,
	}
}

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.userID }

// Kind returns the game this session plays.
func (s *Session) Kind() domain.GameKind { return s.engine.Kind() }

// Act forwards one input to the engine.
func (s *Session) Act(action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil {
		return ErrSessionFinished
	}
	now := s.now()
	s.lastActive = now
	return s.engine.Act(action, now)
}

// Finish reads the player's prior stats, decides whether the score is a new
// record and records it. The score is recorded at most once: a second call
// returns ErrSessionFinished, while a failed call leaves the session
// finishable so the caller can retry.
func (s *Session) Finish(ctx context.Context) (*domain.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil {
		return nil, ErrSessionFinished
	}

	now := s.now()
	s.lastActive = now
	if !s.engine.Finished(now) {
		return nil, ErrSessionRunning
	}
	score := s.engine.Score()

	stats, ok, err := s.reporter.UserStats(ctx, s.userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		stats = nil
	}

	result := &domain.SessionResult{
		Score:       score,
		IsNewRecord: ranking.IsNewRecord(score, stats),
	}
	if stats != nil {
		result.PreviousBest = stats.BestScore
	}

	record, err := s.reporter.RecordSessionResult(ctx, s.userID, score)
	if err != nil {
		return nil, err
	}
	result.Record = record

	s.result = result
	return result, nil
}

// Result returns the recorded result, or nil before a successful Finish.
func (s *Session) Result() *domain.SessionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Snapshot returns the session state at the current time.
func (s *Session) Snapshot() domain.GameSessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	state := domain.GameSessionState{
		ID:        s.id,
		UserID:    s.userID,
		Kind:      s.engine.Kind(),
		StartedAt: s.startedAt,
		Remaining: s.engine.Remaining(now),
		Finished:  s.result != nil,
	}
	state.Over = state.Remaining == 0
	if sv, ok := s.engine.(*SurvivalEngine); ok {
		sv.Finished(now)
		state.Platform = sv.Platform()
		state.PlayerName = sv.PlayerName()
	}
	state.Score = s.engine.Score()
	return state
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
