package ranking

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/placarapp/placar-server/internal/domain"
)

// recordsFromSeeds expands generated seeds into score records. Each seed picks
// one of a handful of users, a score and a timestamp, so generated inputs are
// dense with repeated users, equal scores and equal timestamps.
func recordsFromSeeds(seeds []int64) []domain.ScoreRecord {
	records := make([]domain.ScoreRecord, len(seeds))
	for i, seed := range seeds {
		records[i] = domain.ScoreRecord{
			ID:        int64(i + 1),
			UserID:    fmt.Sprintf("user-%d", seed%7),
			Score:     int((seed / 7) % 50 * 10),
			CreatedAt: baseTime.Add(time.Duration((seed/350)%20) * time.Minute),
		}
	}
	return records
}

func distinctUsers(records []domain.ScoreRecord) map[string]int {
	best := make(map[string]int)
	for _, r := range records {
		if cur, ok := best[r.UserID]; !ok || r.Score > cur {
			best[r.UserID] = r.Score
		}
	}
	return best
}

func seedsGen() gopter.Gen {
	return gen.SliceOf(gen.Int64Range(0, 1_000_000))
}

func TestLeaderboardProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("one entry per distinct user", prop.ForAll(
		func(seeds []int64) bool {
			records := recordsFromSeeds(seeds)
			return len(ComputeLeaderboard(records, "")) == len(distinctUsers(records))
		},
		seedsGen(),
	))

	properties.Property("best score is the max of the user's records", prop.ForAll(
		func(seeds []int64) bool {
			records := recordsFromSeeds(seeds)
			want := distinctUsers(records)
			for _, e := range ComputeLeaderboard(records, "") {
				if want[e.UserID] != e.BestScore {
					return false
				}
			}
			return true
		},
		seedsGen(),
	))

	properties.Property("entries are sorted by best score descending", prop.ForAll(
		func(seeds []int64) bool {
			board := ComputeLeaderboard(recordsFromSeeds(seeds), "")
			for i := 1; i < len(board); i++ {
				if board[i-1].BestScore < board[i].BestScore {
					return false
				}
			}
			return true
		},
		seedsGen(),
	))

	properties.Property("total games sum to the record count", prop.ForAll(
		func(seeds []int64) bool {
			total := 0
			for _, e := range ComputeLeaderboard(recordsFromSeeds(seeds), "") {
				total += e.TotalGames
			}
			return total == len(seeds)
		},
		seedsGen(),
	))

	properties.Property("top 10 is a prefix of the leaderboard", prop.ForAll(
		func(seeds []int64, viewer int64) bool {
			records := recordsFromSeeds(seeds)
			viewerID := fmt.Sprintf("user-%d", viewer)
			board := ComputeLeaderboard(records, viewerID)
			top := ComputeTopN(records, viewerID, WidgetSize)
			if len(top) > WidgetSize || len(top) > len(board) {
				return false
			}
			return reflect.DeepEqual(top, board[:len(top)])
		},
		seedsGen(),
		gen.Int64Range(0, 8),
	))

	properties.Property("user stats absent iff the user has no records", prop.ForAll(
		func(seeds []int64, user int64) bool {
			records := recordsFromSeeds(seeds)
			userID := fmt.Sprintf("user-%d", user)
			_, has := distinctUsers(records)[userID]
			_, ok := ComputeUserStats(records, userID)
			return ok == has
		},
		seedsGen(),
		gen.Int64Range(0, 8),
	))

	properties.Property("user stats agree with the leaderboard entry", prop.ForAll(
		func(seeds []int64) bool {
			records := recordsFromSeeds(seeds)
			for _, e := range ComputeLeaderboard(records, "") {
				stats, ok := ComputeUserStats(records, e.UserID)
				if !ok || stats.BestScore != e.BestScore || stats.TotalGames != e.TotalGames || !stats.LastPlayed.Equal(e.LastPlayed) {
					return false
				}
			}
			return true
		},
		seedsGen(),
	))

	properties.Property("aggregation is idempotent", prop.ForAll(
		func(seeds []int64) bool {
			records := recordsFromSeeds(seeds)
			return reflect.DeepEqual(ComputeLeaderboard(records, "user-3"), ComputeLeaderboard(records, "user-3"))
		},
		seedsGen(),
	))

	properties.Property("order is independent of input order", prop.ForAll(
		func(seeds []int64) bool {
			records := recordsFromSeeds(seeds)
			reversed := make([]domain.ScoreRecord, len(records))
			for i, r := range records {
				reversed[len(records)-1-i] = r
			}
			a := ComputeLeaderboard(records, "")
			b := ComputeLeaderboard(reversed, "")
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i].UserID != b[i].UserID || a[i].BestScore != b[i].BestScore {
					return false
				}
			}
			return true
		},
		seedsGen(),
	))

	properties.TestingRun(t)
}
