package services

import (
	"testing"

	"lingo-progress-system/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonCatalogForNewUser(t *testing.T) {
	e := newTestEnv(t)

	themes, err := e.lessons.Catalog("u1")
	require.NoError(t, err)
	require.Len(t, themes, 3)
	for _, th := range themes {
		require.Len(t, th.Levels, 6)
		assert.True(t, th.Levels[0].Unlocked, th.ID)
		assert.Equal(t, "Beginner", th.Levels[0].LevelName)
		for _, lv := range th.Levels[1:] {
			assert.False(t, lv.Unlocked, "%s %s", th.ID, lv.Level)
		}
	}
}

func TestLessonStartLocked(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.lessons.Start("u1", "travel", progression.LevelA2)
	assert.ErrorIs(t, err, ErrLessonLocked)

	rec, err := e.lessons.Start("u1", " Travel ", progression.LevelA1)
	require.NoError(t, err)
	assert.Equal(t, "travel", rec.ThemeID)
	assert.True(t, rec.Unlocked)

	again, err := e.lessons.Start("u1", "travel", progression.LevelA1)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)
}

func TestLessonCompleteUnlocksNextLevel(t *testing.T) {
	e := newTestEnv(t)

	res, err := e.lessons.Complete("u1", "travel", progression.LevelA1, 92)
	require.NoError(t, err)
	assert.True(t, res.FirstCompletion)
	assert.Equal(t, 3, res.Lesson.Stars)
	require.NotNil(t, res.Unlocked)
	assert.Equal(t, progression.LevelA2, res.Unlocked.Level)
	assert.Equal(t, 29, res.Activity.XP.Awarded)
	assert.Equal(t, 25, res.Activity.Coins)

	_, err = e.lessons.Get("u1", "travel", progression.LevelA2)
	require.NoError(t, err)
	_, err = e.lessons.Get("u1", "travel", progression.LevelB1)
	assert.ErrorIs(t, err, ErrLessonLocked)

	// Re-completing pays XP again but no coins and no second completion.
	res, err = e.lessons.Complete("u1", "travel", progression.LevelA1, 60)
	require.NoError(t, err)
	assert.False(t, res.FirstCompletion)
	assert.Equal(t, 3, res.Lesson.Stars)
	assert.Equal(t, 92, res.Lesson.Score)
	assert.Equal(t, 2, res.Lesson.Attempts)
	assert.Zero(t, res.Activity.Coins)

	p := e.profile(t, "u1")
	assert.Equal(t, 1, p.LessonsCompleted)
	assert.Equal(t, 25, p.Coins)
}

func TestLessonCompleteRejectsLockedAndBadScore(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.lessons.Complete("u1", "business", progression.LevelB1, 90)
	assert.ErrorIs(t, err, ErrLessonLocked)

	_, err = e.lessons.Complete("u1", "business", progression.LevelA1, 120)
	assert.ErrorIs(t, err, progression.ErrOutOfRange)
}

func TestLessonFailingAttempt(t *testing.T) {
	e := newTestEnv(t)

	res, err := e.lessons.Complete("u1", "daily", progression.LevelA1, 30)
	require.NoError(t, err)
	assert.False(t, res.Lesson.Completed)
	assert.Nil(t, res.Unlocked)
	assert.Equal(t, 23, res.Activity.XP.Awarded)

	stats, err := e.stats.Daily("u1", 7)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Zero(t, stats[0].LessonsCompleted)
}
