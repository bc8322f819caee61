package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"player@example.com", "player@example.com"},
		{"  Player@Example.COM ", "player@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmail(tt.in))
		})
	}
}

func TestSession_ExpiredAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: now}

	assert.False(t, s.ExpiredAt(now.Add(-time.Second)))
	assert.False(t, s.ExpiredAt(now), "expiry is exclusive")
	assert.True(t, s.ExpiredAt(now.Add(time.Nanosecond)))
}

func TestSession_Touch(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{}
	s.Touch(now)
	assert.Equal(t, now, s.LastSeenAt)
}
