package progression

import (
	"fmt"
	"strings"
)

// Level is a CEFR level. Levels are totally ordered A1 < A2 < ... < C2.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Levels lists every CEFR level in ascending order.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

var levelNames = map[Level]string{
	LevelA1: "Beginner",
	LevelA2: "Elementary",
	LevelB1: "Intermediate",
	LevelB2: "Upper Intermediate",
	LevelC1: "Advanced",
	LevelC2: "Proficiency",
}

// ParseLevel accepts "a1", "B2", ... and rejects anything outside A1–C2.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if l.Index() < 0 {
		return "", fmt.Errorf("level %q: %w", s, ErrOutOfRange)
	}
	return l, nil
}

// Index returns the position of l in Levels, or -1.
func (l Level) Index() int {
	for i, lv := range Levels {
		if lv == l {
			return i
		}
	}
	return -1
}

// Next returns the level directly above l. ok is false at C2.
func (l Level) Next() (next Level, ok bool) {
	i := l.Index()
	if i < 0 || i == len(Levels)-1 {
		return "", false
	}
	return Levels[i+1], true
}

// Prev returns the level directly below l. ok is false at A1.
func (l Level) Prev() (prev Level, ok bool) {
	i := l.Index()
	if i <= 0 {
		return "", false
	}
	return Levels[i-1], true
}

func (l Level) Name() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return string(l)
}
