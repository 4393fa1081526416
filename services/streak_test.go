package services

import (
	"testing"
	"time"

	"lingo-progress-system/models"
	"lingo-progress-system/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreakCheckIn(t *testing.T) {
	e := newTestEnv(t)

	res, err := e.streak.CheckIn("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.StreakDays)
	assert.True(t, res.Outcome.Changed)

	res, err = e.streak.CheckIn("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.StreakDays)
	assert.False(t, res.Outcome.Changed, "second check-in of the day is a no-op")

	e.clock.Advance(24 * time.Hour)
	res, err = e.streak.CheckIn("u1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.StreakDays)

	e.clock.Advance(72 * time.Hour)
	res, err = e.streak.CheckIn("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.StreakDays)
	assert.True(t, res.Outcome.Broken)
}

func TestStreakFreezeCoversOneMissedDay(t *testing.T) {
	e := newTestEnv(t)
	last := progression.StartOfDay(e.clock.Now()).AddDate(0, 0, -2)
	e.seedProfile(t, models.UserProfile{ExternalUserID: "u1", StreakDays: 5, LastStreakDate: &last, FreezesAvailable: 1})

	res, err := e.streak.CheckIn("u1")
	require.NoError(t, err)
	assert.True(t, res.Outcome.FreezeUsed)
	assert.Equal(t, 5, res.StreakDays)
	assert.Zero(t, res.FreezesAvailable)
}

func TestStreakCheckInAdvancesStreakMission(t *testing.T) {
	e := newTestEnv(t)
	// Pool index 3 of the medium pool is the streak mission.
	e.missions = NewMissionService(e.db, e.progression, fixedRand{3})
	e.missions.Now = e.clock.Now
	e.streak.Missions = e.missions

	_, err := e.streak.CheckIn("u1")
	require.NoError(t, err)
	_, err = e.streak.CheckIn("u1")
	require.NoError(t, err)

	set, err := e.missions.GetDaily("u1")
	require.NoError(t, err)
	var streak *progression.Mission
	for i := range set.Missions {
		if set.Missions[i].Type == progression.MissionStreak {
			streak = &set.Missions[i]
		}
	}
	require.NotNil(t, streak)
	assert.Equal(t, 1, streak.Progress)
	assert.True(t, streak.Completed)
}

type fixedRand struct{ n int }

func (r fixedRand) Intn(n int) int { return r.n % n }
