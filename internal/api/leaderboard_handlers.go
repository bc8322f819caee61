package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/placarapp/placar-server/internal/domain"
	"github.com/placarapp/placar-server/internal/i18n"
	"github.com/placarapp/placar-server/internal/ranking"
)

func (s *Server) registerLeaderboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getLeaderboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/leaderboard",
		Summary:     "Full leaderboard",
		Description: "Ranks every player by best score. The caller's own entry is flagged when signed in.",
		Tags:        []string{"Leaderboard"},
	}, s.handleGetLeaderboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTopPlayers",
		Method:      http.MethodGet,
		Path:        "/api/v1/leaderboard/top",
		Summary:     "Top players",
		Description: "Returns the first entries of the leaderboard with medal labels",
		Tags:        []string{"Leaderboard"},
	}, s.handleGetTopPlayers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMyStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/stats",
		Summary:     "My stats",
		Description: "Summarizes the signed-in player's scores",
		Tags:        []string{"Leaderboard"},
		Security:    bearerSecurity,
	}, s.handleGetMyStats)
}

// === DTOs ===

// TopPlayersInput contains parameters for the top-N widget.
type TopPlayersInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"10" doc:"Number of entries"`
}

// RankingEntryResponse represents a single leaderboard entry.
type RankingEntryResponse struct {
	Rank           int       `json:"rank,omitempty" doc:"Position in the leaderboard, absent on stats"`
	Medal          string    `json:"medal,omitempty" doc:"Medal for the first three positions"`
	UserID         string    `json:"user_id" doc:"User ID"`
	DisplayName    string    `json:"display_name" doc:"Viewer label or masked player label"`
	BestScore      int       `json:"best_score" doc:"Highest score"`
	TotalGames     int       `json:"total_games" doc:"Number of recorded sessions"`
	LastPlayed     time.Time `json:"last_played" doc:"Time of the most recent session"`
	BestAchievedAt time.Time `json:"best_achieved_at" doc:"When the best score was first reached"`
	IsViewer       bool      `json:"is_viewer" doc:"Whether this is the requesting player"`
}

// LeaderboardResponse contains ranked entries. Empty results carry a
// localized placeholder message.
type LeaderboardResponse struct {
	Entries []RankingEntryResponse `json:"entries" doc:"Ranked entries"`
	Empty   bool                   `json:"empty" doc:"True when nobody has a score yet"`
	Message string                 `json:"message,omitempty" doc:"Placeholder text for empty results"`
}

// LeaderboardOutput wraps the leaderboard response for Huma.
type LeaderboardOutput struct {
	Body LeaderboardResponse
}

// StatsResponse contains a player's summary.
type StatsResponse struct {
	HasStats bool                  `json:"has_stats" doc:"False when the player has not played"`
	Stats    *RankingEntryResponse `json:"stats,omitempty" doc:"Player summary"`
	Message  string                `json:"message,omitempty" doc:"Placeholder text when there are no stats"`
}

// StatsOutput wraps the stats response for Huma.
type StatsOutput struct {
	Body StatsResponse
}

// === Handlers ===

func (s *Server) handleGetLeaderboard(ctx context.Context, _ *struct{}) (*LeaderboardOutput, error) {
	viewerID, err := optionalUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Scores.Leaderboard(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return &LeaderboardOutput{Body: leaderboardBody(ctx, entries, false, i18n.KeyLeaderboardEmpty)}, nil
}

func (s *Server) handleGetTopPlayers(ctx context.Context, input *TopPlayersInput) (*LeaderboardOutput, error) {
	viewerID, err := optionalUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Scores.TopN(ctx, viewerID, input.Limit)
	if err != nil {
		return nil, err
	}
	return &LeaderboardOutput{Body: leaderboardBody(ctx, entries, true, i18n.KeyTopEmpty)}, nil
}

func (s *Server) handleGetMyStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, ok, err := s.services.Scores.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &StatsOutput{Body: StatsResponse{Message: localized(ctx, i18n.KeyStatsEmpty)}}, nil
	}

	entry := mapRankingEntry(*stats, false)
	return &StatsOutput{Body: StatsResponse{HasStats: true, Stats: &entry}}, nil
}

func leaderboardBody(ctx context.Context, entries []domain.RankingEntry, medals bool, emptyKey string) LeaderboardResponse {
	resp := LeaderboardResponse{
		Entries: make([]RankingEntryResponse, len(entries)),
	}
	for i, e := range entries {
		resp.Entries[i] = mapRankingEntry(e, medals)
	}
	if len(entries) == 0 {
		resp.Empty = true
		resp.Message = localized(ctx, emptyKey)
	}
	return resp
}

func mapRankingEntry(e domain.RankingEntry, medal bool) RankingEntryResponse {
	resp := RankingEntryResponse{
		Rank:           e.Rank,
		UserID:         e.UserID,
		DisplayName:    e.DisplayName,
		BestScore:      e.BestScore,
		TotalGames:     e.TotalGames,
		LastPlayed:     e.LastPlayed,
		BestAchievedAt: e.BestAchievedAt,
		IsViewer:       e.IsViewer,
	}
	if medal && e.Rank > 0 {
		resp.Medal = strings.TrimSpace(ranking.Medal(e.Rank - 1))
	}
	return resp
}
