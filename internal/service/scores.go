package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/placarapp/placar-server/internal/domain"
	domainerrors "github.com/placarapp/placar-server/internal/errors"
	"github.com/placarapp/placar-server/internal/game"
	"github.com/placarapp/placar-server/internal/i18n"
	"github.com/placarapp/placar-server/internal/metrics"
	"github.com/placarapp/placar-server/internal/ranking"
	"github.com/placarapp/placar-server/internal/store"
)

// sourceAPI labels scores submitted directly rather than through a play session.
const sourceAPI = "api"

// ScoreService records play results and serves leaderboards.
//
// Every read fetches a fresh snapshot from the store and aggregates it; there
// is no cache, so a score is visible to the next read after it is recorded.
type ScoreService struct {
	store   store.ScoreStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewScoreService creates a score service.
func NewScoreService(store store.ScoreStore, m *metrics.Metrics, logger *slog.Logger) *ScoreService {
	return &ScoreService{store: store, metrics: m, logger: logger}
}

// RecordSessionResult appends one score for userID.
func (s *ScoreService) RecordSessionResult(ctx context.Context, userID string, score int) (*domain.ScoreRecord, error) {
	return s.record(ctx, sourceAPI, userID, score)
}

// Submit runs the game-over flow for a score reported by a client: read the
// player's stats, decide whether it is a new record, then record it.
func (s *ScoreService) Submit(ctx context.Context, userID string, score int) (*domain.SessionResult, error) {
	if userID == "" {
		err := domainerrors.Unauthenticated("user not authenticated")
		s.countFailure(err)
		return nil, err
	}

	stats, _, err := s.UserStats(ctx, userID)
	if err != nil {
		s.countFailure(err)
		return nil, err
	}

	result := &domain.SessionResult{
		Score:       score,
		IsNewRecord: ranking.IsNewRecord(score, stats),
	}
	if stats != nil {
		result.PreviousBest = stats.BestScore
	}

	record, err := s.RecordSessionResult(ctx, userID, score)
	if err != nil {
		return nil, err
	}
	result.Record = record
	return result, nil
}

// Leaderboard ranks every player. viewerID may be empty.
func (s *ScoreService) Leaderboard(ctx context.Context, viewerID string) ([]domain.RankingEntry, error) {
	records, err := s.store.ListScores(ctx)
	if err != nil {
		return nil, domainerrors.StoreUnavailable(err, "failed to load scores")
	}

	start := time.Now()
	entries := s.aggregator(ctx).Leaderboard(records, viewerID)
	s.metrics.ObserveAggregation(start)
	s.metrics.LeaderboardQueries.WithLabelValues(metrics.ViewFull).Inc()

	return entries, nil
}

// TopN returns the first n leaderboard entries.
func (s *ScoreService) TopN(ctx context.Context, viewerID string, n int) ([]domain.RankingEntry, error) {
	records, err := s.store.ListScores(ctx)
	if err != nil {
		return nil, domainerrors.StoreUnavailable(err, "failed to load scores")
	}

	start := time.Now()
	entries := s.aggregator(ctx).TopN(records, viewerID, n)
	s.metrics.ObserveAggregation(start)
	s.metrics.LeaderboardQueries.WithLabelValues(metrics.ViewTop).Inc()

	return entries, nil
}

// UserStats summarizes one player. The bool is false when the player has no
// records, which is not an error.
func (s *ScoreService) UserStats(ctx context.Context, userID string) (*domain.RankingEntry, bool, error) {
	if userID == "" {
		return nil, false, nil
	}

	records, err := s.store.ListScoresByUser(ctx, userID)
	if err != nil {
		return nil, false, domainerrors.StoreUnavailable(err, "failed to load scores")
	}

	s.metrics.LeaderboardQueries.WithLabelValues(metrics.ViewStats).Inc()
	stats, ok := s.aggregator(ctx).UserStats(records, userID)
	return stats, ok, nil
}

// BestScore returns the player's best score, 0 when they have none.
func (s *ScoreService) BestScore(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, nil
	}

	best, err := s.store.BestScore(ctx, userID)
	if err != nil {
		return 0, domainerrors.StoreUnavailable(err, "failed to load best score")
	}
	return best, nil
}

// ForGame returns a reporter that labels recorded scores with kind.
func (s *ScoreService) ForGame(kind domain.GameKind) game.Reporter {
	return gameReporter{scores: s, source: string(kind)}
}

func (s *ScoreService) record(ctx context.Context, source, userID string, score int) (*domain.ScoreRecord, error) {
	record, err := ranking.RecordSessionResult(ctx, s.store, userID, score)
	if err != nil {
		s.countFailure(err)
		s.logger.Warn("score not recorded", "user_id", userID, "source", source, "error", err)
		return nil, err
	}

	s.metrics.ScoresRecorded.WithLabelValues(source).Inc()
	s.logger.Info("score recorded",
		"user_id", userID,
		"source", source,
		"score", score,
		"record_id", record.ID,
	)
	return record, nil
}

func (s *ScoreService) countFailure(err error) {
	var reason string
	switch {
	case domainerrors.Is(err, domainerrors.ErrUnauthenticated):
		reason = metrics.ReasonUnauthenticated
	case domainerrors.Is(err, domainerrors.ErrValidation):
		reason = metrics.ReasonInvalid
	case domainerrors.Is(err, domainerrors.ErrStoreUnavailable):
		reason = metrics.ReasonStoreUnavailable
	default:
		return
	}
	s.metrics.SubmissionFailures.WithLabelValues(reason).Inc()
}

func (s *ScoreService) aggregator(ctx context.Context) *ranking.Aggregator {
	return ranking.New(i18n.RankingLabels(i18n.TagFromContext(ctx)))
}

type gameReporter struct {
	scores *ScoreService
	source string
}

func (r gameReporter) UserStats(ctx context.Context, userID string) (*domain.RankingEntry, bool, error) {
	return r.scores.UserStats(ctx, userID)
}

func (r gameReporter) RecordSessionResult(ctx context.Context, userID string, score int) (*domain.ScoreRecord, error) {
	return r.scores.record(ctx, r.source, userID, score)
}
