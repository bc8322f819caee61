// Package ranking turns raw score records into per-player leaderboards and
// player statistics.
//
// Everything here is pure: callers fetch a snapshot of records from the store
// and hand it in. Grouping is by user ID. Ordering is by best score
// descending, then by who reached that score first, then by user ID, so the
// same input always produces the same sequence.
package ranking

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/placarapp/placar-server/internal/domain"
	domainerrors "github.com/placarapp/placar-server/internal/errors"
)

// WidgetSize is the length of the in-game leaderboard widget.
const WidgetSize = 10

// Aggregator computes leaderboards with a fixed set of display labels.
// The zero value is not usable; construct with New.
type Aggregator struct {
	labels Labels
}

// New creates an aggregator that renders names with labels.
func New(labels Labels) *Aggregator {
	return &Aggregator{labels: labels}
}

var defaultAggregator = New(DefaultLabels)

// ComputeLeaderboard ranks every player present in records using DefaultLabels.
func ComputeLeaderboard(records []domain.ScoreRecord, viewerID string) []domain.RankingEntry {
	return defaultAggregator.Leaderboard(records, viewerID)
}

// ComputeTopN returns the first n entries of ComputeLeaderboard.
func ComputeTopN(records []domain.ScoreRecord, viewerID string, n int) []domain.RankingEntry {
	return defaultAggregator.TopN(records, viewerID, n)
}

// ComputeUserStats summarizes a single player's records using DefaultLabels.
func ComputeUserStats(records []domain.ScoreRecord, userID string) (*domain.RankingEntry, bool) {
	return defaultAggregator.UserStats(records, userID)
}

// Leaderboard groups records by user and returns one entry per distinct
// user, sorted. The result is never nil.
func (a *Aggregator) Leaderboard(records []domain.ScoreRecord, viewerID string) []domain.RankingEntry {
	entries := group(records, "")
	slices.SortFunc(entries, compareEntries)

	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].DisplayName = a.labels.DisplayName(entries[i].UserID, viewerID)
		entries[i].IsViewer = viewerID != "" && entries[i].UserID == viewerID
	}
	return entries
}

// TopN is Leaderboard truncated to n entries. n <= 0 yields an empty result.
func (a *Aggregator) TopN(records []domain.ScoreRecord, viewerID string, n int) []domain.RankingEntry {
	entries := a.Leaderboard(records, viewerID)
	if n <= 0 {
		return entries[:0]
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// UserStats summarizes the records belonging to userID. The second return is
// false when the user has no records (or userID is empty). The entry always
// carries the viewer's own label and has no rank.
func (a *Aggregator) UserStats(records []domain.ScoreRecord, userID string) (*domain.RankingEntry, bool) {
	if userID == "" {
		return nil, false
	}
	entries := group(records, userID)
	if len(entries) == 0 {
		return nil, false
	}

	entry := entries[0]
	entry.DisplayName = a.labels.You
	entry.IsViewer = true
	return &entry, true
}

// group folds records into one entry per user, in first-seen order. A
// non-empty only restricts the fold to that user.
func group(records []domain.ScoreRecord, only string) []domain.RankingEntry {
	index := make(map[string]int)
	entries := make([]domain.RankingEntry, 0)

	for _, r := range records {
		if only != "" && r.UserID != only {
			continue
		}

		i, seen := index[r.UserID]
		if !seen {
			index[r.UserID] = len(entries)
			entries = append(entries, domain.RankingEntry{
				UserID:         r.UserID,
				BestScore:      r.Score,
				TotalGames:     1,
				LastPlayed:     r.CreatedAt,
				BestAchievedAt: r.CreatedAt,
				LastRecordID:   r.ID,
			})
			continue
		}

		e := &entries[i]
		e.TotalGames++

		switch {
		case r.Score > e.BestScore:
			e.BestScore = r.Score
			e.BestAchievedAt = r.CreatedAt
		case r.Score == e.BestScore && r.CreatedAt.Before(e.BestAchievedAt):
			e.BestAchievedAt = r.CreatedAt
		}

		// Equal timestamps: the later record in the input wins.
		if !r.CreatedAt.Before(e.LastPlayed) {
			e.LastPlayed = r.CreatedAt
			e.LastRecordID = r.ID
		}
	}

	return entries
}

func compareEntries(a, b domain.RankingEntry) int {
	if c := cmp.Compare(b.BestScore, a.BestScore); c != 0 {
		return c
	}
	if c := a.BestAchievedAt.Compare(b.BestAchievedAt); c != 0 {
		return c
	}
	return strings.Compare(a.UserID, b.UserID)
}

// Medal returns the rank label for a position in a top-N sequence.
func Medal(position int) string {
	switch position {
	case 0:
		return "🥇 "
	case 1:
		return "🥈 "
	case 2:
		return "🥉 "
	default:
		return strconv.Itoa(position+1) + ". "
	}
}

// IsNewRecord reports whether score beats the player's previous best.
// With no prior stats the previous best counts as zero.
func IsNewRecord(score int, stats *domain.RankingEntry) bool {
	best := 0
	if stats != nil {
		best = stats.BestScore
	}
	return score > best
}

// ScoreWriter is the single store capability RecordSessionResult needs.
type ScoreWriter interface {
	InsertScore(ctx context.Context, userID string, score int) (*domain.ScoreRecord, error)
}

// RecordSessionResult appends one score record for userID. It never touches
// existing records and never retries.
//
// Fails with ErrUnauthenticated when userID is empty, without writing, and
// with ErrStoreUnavailable when the store rejects the insert.
func RecordSessionResult(ctx context.Context, w ScoreWriter, userID string, score int) (*domain.ScoreRecord, error) {
	if userID == "" {
		return nil, domainerrors.Unauthenticated("user not authenticated")
	}
	if score < 0 {
		return nil, domainerrors.Validationf("score must be non-negative, got %d", score)
	}

	record, err := w.InsertScore(ctx, userID, score)
	if err != nil {
		return nil, domainerrors.StoreUnavailable(err, "failed to record score")
	}
	return record, nil
}
