package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/placarapp/placar-server/internal/errors"
	"github.com/placarapp/placar-server/internal/i18n"
	"github.com/placarapp/placar-server/internal/metrics"
)

func TestScoreService_SubmitAndLeaderboard(t *testing.T) {
	s := newTestStore(t)
	scores, m := newScoreService(t, s)
	ctx := context.Background()

	mustCreateUser(t, s, "alice-0000-1111")
	mustCreateUser(t, s, "bruno-2222-3333")

	first, err := scores.Submit(ctx, "alice-0000-1111", 120)
	require.NoError(t, err)
	assert.True(t, first.IsNewRecord)
	assert.Zero(t, first.PreviousBest)
	assert.Equal(t, 120, first.Record.Score)

	second, err := scores.Submit(ctx, "alice-0000-1111", 80)
	require.NoError(t, err)
	assert.False(t, second.IsNewRecord)
	assert.Equal(t, 120, second.PreviousBest)

	_, err = scores.Submit(ctx, "bruno-2222-3333", 300)
	require.NoError(t, err)

	entries, err := scores.Leaderboard(ctx, "alice-0000-1111")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "bruno-2222-3333", entries[0].UserID)
	assert.Equal(t, "Jogador bruno-22...", entries[0].DisplayName)
	assert.False(t, entries[0].IsViewer)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "Você", entries[1].DisplayName)
	assert.True(t, entries[1].IsViewer)
	assert.Equal(t, 120, entries[1].BestScore)
	assert.Equal(t, 2, entries[1].TotalGames)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ScoresRecorded.WithLabelValues(sourceAPI)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LeaderboardQueries.WithLabelValues(metrics.ViewFull)))
}

func TestScoreService_LabelsFollowLocale(t *testing.T) {
	s := newTestStore(t)
	scores, _ := newScoreService(t, s)
	mustCreateUser(t, s, "alice-0000-1111")
	mustCreateUser(t, s, "bruno-2222-3333")

	ctx := context.Background()
	_, err := scores.RecordSessionResult(ctx, "alice-0000-1111", 10)
	require.NoError(t, err)
	_, err = scores.RecordSessionResult(ctx, "bruno-2222-3333", 20)
	require.NoError(t, err)

	enCtx := i18n.WithTag(ctx, i18n.English)
	entries, err := scores.TopN(enCtx, "alice-0000-1111", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Player bruno-22...", entries[0].DisplayName)
	assert.Equal(t, "You", entries[1].DisplayName)
}

func TestScoreService_TopN(t *testing.T) {
	s := newTestStore(t)
	scores, m := newScoreService(t, s)
	ctx := context.Background()

	for i, u := range []string{"u1", "u2", "u3"} {
		mustCreateUser(t, s, u)
		_, err := scores.RecordSessionResult(ctx, u, (i+1)*10)
		require.NoError(t, err)
	}

	top, err := scores.TopN(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "u3", top[0].UserID)
	assert.Equal(t, "u2", top[1].UserID)

	none, err := scores.TopN(ctx, "", 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LeaderboardQueries.WithLabelValues(metrics.ViewTop)))
}

func TestScoreService_EmptyStore(t *testing.T) {
	scores, _ := newScoreService(t, newTestStore(t))
	ctx := context.Background()

	entries, err := scores.Leaderboard(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	stats, ok, err := scores.UserStats(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, stats)

	best, err := scores.BestScore(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, best)

	best, err = scores.BestScore(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, best)
}

func TestScoreService_UserStatsAndBest(t *testing.T) {
	s := newTestStore(t)
	scores, _ := newScoreService(t, s)
	ctx := context.Background()
	mustCreateUser(t, s, "carla")

	for _, v := range []int{40, 90, 90, 10} {
		_, err := scores.RecordSessionResult(ctx, "carla", v)
		require.NoError(t, err)
	}

	stats, ok, err := scores.UserStats(ctx, "carla")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 90, stats.BestScore)
	assert.Equal(t, 4, stats.TotalGames)
	assert.Equal(t, "Você", stats.DisplayName)

	best, err := scores.BestScore(ctx, "carla")
	require.NoError(t, err)
	assert.Equal(t, 90, best)
}

func TestScoreService_UnauthenticatedSubmitWritesNothing(t *testing.T) {
	s := newTestStore(t)
	scores, m := newScoreService(t, s)
	ctx := context.Background()

	_, err := scores.Submit(ctx, "", 50)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthenticated))

	_, err = scores.RecordSessionResult(ctx, "", 50)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthenticated))

	count, err := s.CountScores(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SubmissionFailures.WithLabelValues(metrics.ReasonUnauthenticated)))
}

func TestScoreService_NegativeScore(t *testing.T) {
	s := newTestStore(t)
	scores, m := newScoreService(t, s)
	mustCreateUser(t, s, "dani")

	_, err := scores.Submit(context.Background(), "dani", -1)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubmissionFailures.WithLabelValues(metrics.ReasonInvalid)))
}

func TestScoreService_StoreUnavailable(t *testing.T) {
	scores, m := newScoreService(t, brokenScoreStore{})
	ctx := context.Background()

	_, err := scores.Leaderboard(ctx, "")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrStoreUnavailable))
	assert.ErrorIs(t, err, errBroken)

	entries, err := scores.TopN(ctx, "", 10)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrStoreUnavailable))
	assert.Nil(t, entries, "no partial leaderboard on failure")

	_, _, err = scores.UserStats(ctx, "eli")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrStoreUnavailable))

	_, err = scores.BestScore(ctx, "eli")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrStoreUnavailable))

	_, err = scores.RecordSessionResult(ctx, "eli", 5)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrStoreUnavailable))

	_, err = scores.Submit(ctx, "eli", 5)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrStoreUnavailable))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SubmissionFailures.WithLabelValues(metrics.ReasonStoreUnavailable)))
}
