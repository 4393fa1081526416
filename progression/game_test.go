package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameStateRecord(t *testing.T) {
	var g GameState
	g = g.Record(40, 30, day0)
	g = g.Record(90, 20, day0)
	g = g.Record(61, 25, day0)

	assert.Equal(t, 3, g.TotalPlays)
	assert.Equal(t, 90, g.BestScore)
	assert.Equal(t, 64, g.AverageScore) // 191/3 = 63.67
	assert.Len(t, g.Scores, 3)
	assert.Equal(t, 20, g.Scores[1].TimeSpent)
}

func TestGameStateRecordDoesNotAlias(t *testing.T) {
	base := GameState{}.Record(10, 1, day0)
	a := base.Record(20, 1, day0)
	b := base.Record(30, 1, day0)

	assert.Equal(t, 20, a.Scores[1].Score)
	assert.Equal(t, 30, b.Scores[1].Score)
	assert.Len(t, base.Scores, 1)
}
