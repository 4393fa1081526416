package progression

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

const (
	MaxLeaderboardEntries = 100
	LeaderboardTTL        = 10 * time.Minute
)

type LeaderboardType string

const (
	LeaderboardGlobal LeaderboardType = "global"
	LeaderboardWeekly LeaderboardType = "weekly"
	LeaderboardLeague LeaderboardType = "league"
)

// AllTimePeriod is the period key of the global board.
const AllTimePeriod = "all-time"

// Ranked is a candidate row: Score is whichever XP field the board sorts by.
type Ranked struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Level  int    `json:"level"`
	League League `json:"league"`
	Score  int    `json:"score"`
}

type RankedEntry struct {
	Rank int `json:"rank"`
	Ranked
}

// RankEntries sorts by Score descending, keeping input order for ties, and
// assigns consecutive 1-based ranks to the first limit rows.
func RankEntries(rows []Ranked, limit int) []RankedEntry {
	if limit <= 0 || limit > MaxLeaderboardEntries {
		limit = MaxLeaderboardEntries
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Ranked) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]RankedEntry, len(sorted))
	for i, r := range sorted {
		out[i] = RankedEntry{Rank: i + 1, Ranked: r}
	}
	return out
}

// IsStale reports whether a snapshot built at updatedAt must be rebuilt at now.
func IsStale(updatedAt, now time.Time, ttl time.Duration) bool {
	if updatedAt.IsZero() {
		return true
	}
	return now.Sub(updatedAt) > ttl
}

// WeeklyPeriod is the ISO week key, e.g. "2026-W42".
func WeeklyPeriod(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", y, w)
}
