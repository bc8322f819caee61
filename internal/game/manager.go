package game

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/placarapp/placar-server/internal/domain"
	domainerrors "github.com/placarapp/placar-server/internal/errors"
	"github.com/placarapp/placar-server/internal/id"
)

// MaxPlayerNameLength bounds the survival player name in runes.
const MaxPlayerNameLength = 32

// Options tune a new session. Platform and PlayerName apply to survival only.
type Options struct {
	Platform   domain.Platform
	PlayerName string
}

// ReporterFunc picks the reporter for sessions of a kind.
type ReporterFunc func(kind domain.GameKind) Reporter

// Manager keeps live sessions in memory and sweeps the idle ones.
type Manager struct {
	reporterFor ReporterFunc
	ttl         time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewManager creates a manager whose sessions expire after ttl without activity.
func NewManager(reporterFor ReporterFunc, ttl time.Duration) *Manager {
	return &Manager{
		reporterFor: reporterFor,
		ttl:         ttl,
		sessions:    make(map[string]*Session),
		now:         time.Now,
	}
}

// SetClock replaces the time source. Intended for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

func (m *Manager) clock() time.Time {
	m.mu.Lock()
	now := m.now
	m.mu.Unlock()
	return now()
}

// Start opens a session for userID.
func (m *Manager) Start(userID string, kind domain.GameKind, opts Options) (*Session, error) {
	if userID == "" {
		return nil, domainerrors.Unauthenticated("sign in to play")
	}
	if !kind.Valid() {
		return nil, domainerrors.Validationf("unknown game kind %q", kind)
	}

	startedAt := m.clock()

	var engine Engine
	switch kind {
	case domain.GameKindClicker:
		engine = NewClickerEngine(startedAt)
	case domain.GameKindSurvival:
		platform := opts.Platform
		if platform == "" {
			platform = domain.PlatformPC
		}
		if !platform.Valid() {
			return nil, domainerrors.Validationf("unknown platform %q", opts.Platform)
		}
		name := strings.TrimSpace(opts.PlayerName)
		if utf8.RuneCountInString(name) > MaxPlayerNameLength {
			return nil, domainerrors.Validationf("player name must be at most %d characters", MaxPlayerNameLength)
		}
		engine = NewSurvivalEngine(startedAt, platform, name)
	}

	sessionID, err := id.Generate(id.PrefixGame)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate session id")
	}

	s := newSession(sessionID, userID, engine, m.reporterFor(kind), m.clock, startedAt)

	m.mu.Lock()
	m.sessions[sessionID] = s
	m.mu.Unlock()

	return s, nil
}

// Get returns the session with the given ID if it belongs to userID.
// Sessions owned by someone else are reported as not found.
func (m *Manager) Get(sessionID, userID string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()

	if !ok || s.userID != userID {
		return nil, ErrNotFound
	}
	return s, nil
}

// Len returns the number of sessions held, finished ones included.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Running returns the number of sessions that have not recorded a result.
// Finished sessions stay readable until swept but are not counted.
func (m *Manager) Running() int {
	m.mu.Lock()
	held := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		held = append(held, s)
	}
	m.mu.Unlock()

	running := 0
	for _, s := range held {
		if s.Result() == nil {
			running++
		}
	}
	return running
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed. Unfinished sessions swept this way are never recorded.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	candidates := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		candidates = append(candidates, s)
	}
	m.mu.Unlock()

	var expired []string
	for _, s := range candidates {
		if now.Sub(s.idleSince()) > m.ttl {
			expired = append(expired, s.id)
		}
	}

	m.mu.Lock()
	for _, sid := range expired {
		delete(m.sessions, sid)
	}
	m.mu.Unlock()

	return len(expired)
}
