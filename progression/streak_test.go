package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(t time.Time) *time.Time { return &t }

func TestStreakUpdate(t *testing.T) {
	now := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	today := StartOfDay(now)

	t.Run("first activity", func(t *testing.T) {
		s, out := StreakState{}.Update(now)
		assert.Equal(t, 1, s.StreakDays)
		assert.Equal(t, today, *s.LastStreakDate)
		assert.True(t, out.Changed)
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		last := today.Add(2 * time.Hour)
		in := StreakState{StreakDays: 4, LastStreakDate: &last}
		s, out := in.Update(now.Add(10 * time.Hour))
		assert.Equal(t, in, s)
		assert.False(t, out.Changed)
	})

	t.Run("next day extends", func(t *testing.T) {
		s, out := StreakState{StreakDays: 4, LastStreakDate: ptr(today.AddDate(0, 0, -1).Add(23 * time.Hour))}.Update(now)
		assert.Equal(t, 5, s.StreakDays)
		assert.True(t, out.Extended)
		assert.Equal(t, today, *s.LastStreakDate)
	})

	t.Run("two day gap consumes a freeze", func(t *testing.T) {
		s, out := StreakState{StreakDays: 9, FreezesAvailable: 1, LastStreakDate: ptr(today.AddDate(0, 0, -2))}.Update(now)
		assert.Equal(t, 9, s.StreakDays)
		assert.Equal(t, 0, s.FreezesAvailable)
		assert.True(t, out.FreezeUsed)
		assert.Equal(t, today, *s.LastStreakDate)
	})

	t.Run("two day gap without freeze resets", func(t *testing.T) {
		s, out := StreakState{StreakDays: 9, LastStreakDate: ptr(today.AddDate(0, 0, -2))}.Update(now)
		assert.Equal(t, 1, s.StreakDays)
		assert.True(t, out.Broken)
	})

	t.Run("three day gap resets even with a freeze", func(t *testing.T) {
		s, out := StreakState{StreakDays: 9, FreezesAvailable: 1, LastStreakDate: ptr(today.AddDate(0, 0, -3))}.Update(now)
		assert.Equal(t, 1, s.StreakDays)
		assert.Equal(t, 1, s.FreezesAvailable)
		assert.True(t, out.Broken)
	})
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	a := time.Date(2026, 3, 28, 12, 0, 0, 0, loc)
	b := time.Date(2026, 3, 30, 0, 30, 0, 0, loc)
	assert.Equal(t, 2, DaysBetween(a, b))
}
