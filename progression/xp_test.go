package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXPStateAdd(t *testing.T) {
	for _, tc := range []struct {
		name    string
		start   int
		amount  int
		level   int
		levelUp bool
	}{
		{"zero", 0, 0, 1, false},
		{"within level", 10, 50, 1, false},
		{"exact boundary", 50, 50, 2, true},
		{"multi level jump", 90, 320, 5, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := XPState{XP: tc.start, Level: LevelForXP(tc.start)}
			next, res, err := s.Add(tc.amount)
			require.NoError(t, err)

			assert.Equal(t, tc.start+tc.amount, next.XP)
			assert.Equal(t, tc.amount, next.LeagueXP)
			assert.Equal(t, (tc.start+tc.amount)/100+1, next.Level)
			assert.Equal(t, tc.level, res.NewLevel)
			assert.Equal(t, tc.levelUp, res.LevelUp)
		})
	}

	t.Run("negative amount", func(t *testing.T) {
		s := XPState{XP: 120, Level: 2}
		next, _, err := s.Add(-5)
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.Equal(t, s, next)
	})
}

func TestApplyMultiplier(t *testing.T) {
	assert.Equal(t, 25, ApplyMultiplier(25, 1))
	assert.Equal(t, 50, ApplyMultiplier(25, 2))
	assert.Equal(t, 37, ApplyMultiplier(25, 1.5))
	assert.Equal(t, 25, ApplyMultiplier(25, 0.5))
}

func TestProgressFor(t *testing.T) {
	p := ProgressFor(245)
	assert.Equal(t, 3, p.CurrentLevel)
	assert.Equal(t, 200, p.LevelStartXP)
	assert.Equal(t, 300, p.NextLevelXP)
	assert.Equal(t, 45, p.XPInLevel)
	assert.Equal(t, 55, p.XPRemaining)
	assert.Equal(t, 45, p.Percentage)
}
