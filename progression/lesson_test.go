package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarsFor(t *testing.T) {
	cases := map[int]int{0: 0, 49: 0, 50: 1, 69: 1, 70: 2, 89: 2, 90: 3, 100: 3}
	for score, stars := range cases {
		assert.Equal(t, stars, StarsFor(score), "score %d", score)
	}
}

func TestCompleteLesson(t *testing.T) {
	t.Run("rejects scores outside 0-100", func(t *testing.T) {
		_, _, err := CompleteLesson(nil, "travel", LevelA1, 101, day0)
		assert.ErrorIs(t, err, ErrOutOfRange)

		_, _, err = CompleteLesson(nil, "travel", LevelA1, -1, day0)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, _, err := CompleteLesson(nil, "travel", Level("D1"), 80, day0)
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("failing attempt creates the record without completing", func(t *testing.T) {
		recs, res, err := CompleteLesson(nil, "travel", LevelA1, 40, day0)
		require.NoError(t, err)

		assert.Len(t, recs, 1)
		assert.False(t, res.FirstCompletion)
		assert.Nil(t, res.Unlocked)
		assert.Equal(t, 1, res.Record.Attempts)
		assert.Equal(t, 0, res.Record.Stars)
		assert.True(t, res.Record.Unlocked)
	})

	t.Run("stars never decrease", func(t *testing.T) {
		var recs []LessonRecord
		var err error
		var res LessonResult
		prev := 0
		for _, score := range []int{55, 95, 60, 20, 75} {
			recs, res, err = CompleteLesson(recs, "food", LevelA1, score, day0)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Record.Stars, prev)
			prev = res.Record.Stars
		}
		assert.Equal(t, 3, res.Record.Stars)
		assert.Equal(t, 95, res.Record.Score)
		assert.Equal(t, 5, res.Record.Attempts)
	})

	t.Run("completing A2 unlocks only B1", func(t *testing.T) {
		recs := []LessonRecord{
			{ThemeID: "food", Level: LevelA1, LessonState: LessonState{Completed: true, Unlocked: true}},
			{ThemeID: "food", Level: LevelA2, LessonState: LessonState{Unlocked: true}},
		}
		recs, res, err := CompleteLesson(recs, "food", LevelA2, 70, day0)
		require.NoError(t, err)

		assert.True(t, res.FirstCompletion)
		require.NotNil(t, res.Unlocked)
		assert.Equal(t, LevelB1, res.Unlocked.Level)
		assert.Len(t, recs, 3)
		assert.True(t, IsUnlocked(recs, "food", LevelB1))
		assert.False(t, IsUnlocked(recs, "food", LevelB2))
		assert.False(t, IsUnlocked(recs, "travel", LevelA2))
	})

	t.Run("re-completion does not unlock again", func(t *testing.T) {
		recs, res, err := CompleteLesson(nil, "food", LevelC2, 80, day0)
		require.NoError(t, err)
		assert.True(t, res.FirstCompletion)
		assert.Nil(t, res.Unlocked)

		_, res, err = CompleteLesson(recs, "food", LevelC2, 99, day0)
		require.NoError(t, err)
		assert.False(t, res.FirstCompletion)
		assert.Equal(t, 3, res.Record.Stars)
	})
}

func TestIsUnlocked(t *testing.T) {
	assert.True(t, IsUnlocked(nil, "travel", LevelA1))
	assert.False(t, IsUnlocked(nil, "travel", LevelA2))

	recs, rec := StartLesson(nil, "travel", LevelA1)
	assert.Len(t, recs, 1)
	assert.True(t, rec.Unlocked)

	again, _ := StartLesson(recs, "travel", LevelA1)
	assert.Len(t, again, 1)
}
