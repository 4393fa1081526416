package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEarnedAchievements(t *testing.T) {
	stats := AchievementStats{GamesPlayed: 6, LessonsCompleted: 1, StreakDays: 7}

	var ids []string
	for _, a := range EarnedAchievements(stats, map[string]bool{"first_game": true}) {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"five_games", "first_lesson", "week_streak"}, ids)
}

func TestFindAchievement(t *testing.T) {
	a, ok := FindAchievement("speed_demon")
	assert.True(t, ok)
	assert.Nil(t, a.Met)

	_, ok = FindAchievement("nope")
	assert.False(t, ok)
}

func TestRewards(t *testing.T) {
	assert.Equal(t, 29, LessonXP(95))
	assert.Equal(t, 20, GameXP(100))
	assert.Equal(t, 10, GameXP(-4))
	assert.Equal(t, 2, ReviewXP(true))
	assert.Equal(t, 1, ReviewXP(false))
	assert.Equal(t, 25, LessonCoins(3))
}
