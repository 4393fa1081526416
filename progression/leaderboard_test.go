package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRankEntries(t *testing.T) {
	rows := []Ranked{
		{UserID: "a", Score: 10},
		{UserID: "b", Score: 40},
		{UserID: "c", Score: 10},
		{UserID: "d", Score: 25},
	}

	got := RankEntries(rows, 0)
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.UserID
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
	assert.Equal(t, "a", rows[0].UserID, "input must not be reordered")

	assert.Len(t, RankEntries(rows, 2), 2)
}

func TestRankEntriesCapsAtHundred(t *testing.T) {
	rows := make([]Ranked, 150)
	for i := range rows {
		rows[i].Score = i
	}
	got := RankEntries(rows, 500)
	assert.Len(t, got, MaxLeaderboardEntries)
	assert.Equal(t, 149, got[0].Score)
	assert.Equal(t, 100, got[99].Rank)
}

func TestIsStale(t *testing.T) {
	built := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, IsStale(time.Time{}, built, LeaderboardTTL))
	assert.False(t, IsStale(built, built.Add(10*time.Minute), LeaderboardTTL))
	assert.True(t, IsStale(built, built.Add(10*time.Minute+time.Second), LeaderboardTTL))
}

func TestWeeklyPeriod(t *testing.T) {
	assert.Equal(t, "2026-W42", WeeklyPeriod(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)))
	// Jan 1 2027 is a Friday and still belongs to the last ISO week of 2026.
	assert.Equal(t, "2026-W53", WeeklyPeriod(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
}
