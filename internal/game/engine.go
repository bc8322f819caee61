// Package game runs play sessions for the mini-games and reports their
// results to the leaderboard exactly once.
package game

import (
	"errors"
	"time"

	"github.com/placarapp/placar-server/internal/domain"
)

// Session errors.
var (
	ErrSessionOver     = errors.New("game: session time is over")
	ErrSessionRunning  = errors.New("game: session is still running")
	ErrSessionFinished = errors.New("game: session already finished")
	ErrUnknownAction   = errors.New("game: action not supported by this game")
	ErrNotFound        = errors.New("game: session not found")
)

// Action is a player input forwarded to an engine.
type Action string

// ActionClick is the clicker's only input.
const ActionClick Action = "click"

// Engine is the boundary to a game's rules. Engines are not safe for
// concurrent use; Session serializes access.
type Engine interface {
	Kind() domain.GameKind
	// Act applies one player input at now.
	Act(action Action, now time.Time) error
	// Finished reports whether the session may be finished at now.
	Finished(now time.Time) bool
	// Remaining is the play time left at now, zero once time is up.
	Remaining(now time.Time) time.Duration
	Score() int
}

// Clicker rules.
const (
	PointsPerClick  = 10
	ClickerDuration = 30 * time.Second
)

// ClickerEngine scores PointsPerClick for every click inside a fixed window.
type ClickerEngine struct {
	start time.Time
	score int
}

// NewClickerEngine starts a clicker round at start.
func NewClickerEngine(start time.Time) *ClickerEngine {
	return &ClickerEngine{start: start}
}

func (e *ClickerEngine) Kind() domain.GameKind { return domain.GameKindClicker }

func (e *ClickerEngine) Act(action Action, now time.Time) error {
	if action != ActionClick {
		return ErrUnknownAction
	}
	if e.Remaining(now) == 0 {
		return ErrSessionOver
	}
	e.score += PointsPerClick
	return nil
}

// Finished is always true: a player may stop before the timer runs out.
func (e *ClickerEngine) Finished(time.Time) bool { return true }

func (e *ClickerEngine) Remaining(now time.Time) time.Duration {
	return max(e.start.Add(ClickerDuration).Sub(now), 0)
}

func (e *ClickerEngine) Score() int { return e.score }

// Survival stub rules. The 3D arena runs entirely on the client; the
// server only enforces a minimum round length and a fixed score.
const (
	SurvivalStubDuration = 10 * time.Second
	SurvivalStubScore    = 1000
)

// SurvivalEngine stands in for the survival arena.
type SurvivalEngine struct {
	start      time.Time
	platform   domain.Platform
	playerName string
	over       bool
}

// NewSurvivalEngine starts a survival round at start.
func NewSurvivalEngine(start time.Time, platform domain.Platform, playerName string) *SurvivalEngine {
	return &SurvivalEngine{start: start, platform: platform, playerName: playerName}
}

func (e *SurvivalEngine) Kind() domain.GameKind { return domain.GameKindSurvival }

func (e *SurvivalEngine) Platform() domain.Platform { return e.platform }

func (e *SurvivalEngine) PlayerName() string { return e.playerName }

func (e *SurvivalEngine) Act(Action, time.Time) error { return ErrUnknownAction }

// Finished latches once the stub duration has elapsed.
func (e *SurvivalEngine) Finished(now time.Time) bool {
	if !e.over && e.Remaining(now) == 0 {
		e.over = true
	}
	return e.over
}

func (e *SurvivalEngine) Remaining(now time.Time) time.Duration {
	return max(e.start.Add(SurvivalStubDuration).Sub(now), 0)
}

// Score is zero until the round has been observed finished.
func (e *SurvivalEngine) Score() int {
	if !e.over {
		return 0
	}
	return SurvivalStubScore
}
