package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/placarapp/placar-server/internal/store"
)

func TestMonotonicClock_NeverGoesBackwards(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	readings := []time.Time{
		base,
		base.Add(2 * time.Second),
		base.Add(time.Second), // wall clock stepped back
		base.Add(3 * time.Second),
	}
	i := 0
	clock := store.NewMonotonicClock(func() time.Time {
		r := readings[i]
		i++
		return r
	})

	got := []time.Time{clock.Now(), clock.Now(), clock.Now(), clock.Now()}

	assert.Equal(t, base, got[0])
	assert.Equal(t, base.Add(2*time.Second), got[1])
	assert.Equal(t, base.Add(2*time.Second), got[2])
	assert.Equal(t, base.Add(3*time.Second), got[3])
}

func TestMonotonicClock_TruncatesToMicroseconds(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.FixedZone("BRT", -3*3600))
	clock := store.NewMonotonicClock(func() time.Time { return at })

	got := clock.Now()
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 123456000, got.Nanosecond())
}
