package domain

import "time"

// GameKind identifies which mini-game produced a play session.
type GameKind string

const (
	// GameKindClicker is the timed click-as-fast-as-you-can game.
	GameKindClicker GameKind = "clicker"
	// GameKindSurvival is the 3D arena. Its engine is currently a stub.
	GameKindSurvival GameKind = "survival"
)

// Valid checks if the kind is a known game.
func (k GameKind) Valid() bool {
	switch k {
	case GameKindClicker, GameKindSurvival:
		return true
	default:
		return false
	}
}

// Platform is the input scheme the survival arena was started with.
type Platform string

const (
	PlatformPC     Platform = "pc"
	PlatformMobile Platform = "mobile"
)

// Valid checks if the platform is supported.
func (p Platform) Valid() bool {
	return p == PlatformPC || p == PlatformMobile
}

// GameSessionState is a point-in-time snapshot of a running play session.
type GameSessionState struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Kind       GameKind      `json:"kind"`
	Platform   Platform      `json:"platform,omitempty"`
	PlayerName string        `json:"player_name,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Score      int           `json:"score"`
	Remaining  time.Duration `json:"remaining"`
	Over       bool          `json:"over"`
	Finished   bool          `json:"finished"`
}
