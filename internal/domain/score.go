// Package domain holds the leaderboard, account and play session types shared
// by the store, service and transport layers.
package domain

import "time"

// ScoreRecord is one completed play session. Records are append-only:
// the store assigns ID and CreatedAt and nothing ever updates them.
type ScoreRecord struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// RankingEntry is a per-user summary derived from ScoreRecords.
// It is recomputed on every query and never persisted.
type RankingEntry struct {
	Rank        int       `json:"rank"` // 1-based position in the sequence it was produced in
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	BestScore   int       `json:"best_score"`
	TotalGames  int       `json:"total_games"`
	LastPlayed  time.Time `json:"last_played"`

	// BestAchievedAt is the earliest CreatedAt among the user's records that
	// hold BestScore. Used as the secondary sort key.
	BestAchievedAt time.Time `json:"best_achieved_at"`

	// LastRecordID is the record that supplied LastPlayed.
	LastRecordID int64 `json:"last_record_id"`

	IsViewer bool `json:"is_viewer"`
}

// SessionResult is what a finished play session reports back to its owner.
type SessionResult struct {
	Score        int          `json:"score"`
	Record       *ScoreRecord `json:"record"`
	PreviousBest int          `json:"previous_best"`
	IsNewRecord  bool         `json:"is_new_record"`
}
