package progression

import (
	"math"
	"time"
)

// ScoreEntry is one play of a mini-game.
type ScoreEntry struct {
	Score     int       `json:"score"`
	TimeSpent int       `json:"time_spent"`
	Timestamp time.Time `json:"timestamp"`
}

// GameState aggregates every play of one game by one user.
type GameState struct {
	Scores       []ScoreEntry `json:"scores"`
	BestScore    int          `json:"best_score"`
	TotalPlays   int          `json:"total_plays"`
	AverageScore int          `json:"average_score"`
}

// Record appends a play and refreshes the running statistics. History is never pruned.
func (g GameState) Record(score, timeSpent int, now time.Time) GameState {
	scores := make([]ScoreEntry, len(g.Scores), len(g.Scores)+1)
	copy(scores, g.Scores)
	g.Scores = append(scores, ScoreEntry{Score: score, TimeSpent: timeSpent, Timestamp: now})

	g.TotalPlays++
	if g.TotalPlays == 1 {
		g.BestScore = score
	} else {
		g.BestScore = max(g.BestScore, score)
	}

	total := 0
	for _, s := range g.Scores {
		total += s.Score
	}
	g.AverageScore = int(math.Round(float64(total) / float64(len(g.Scores))))
	return g
}
