package progression

import (
	"fmt"
	"math"
)

// XPPerLevel is the width of every level band.
const XPPerLevel = 100

// XPState is the slice of a profile the ledger owns.
type XPState struct {
	XP       int `json:"xp"`
	Level    int `json:"level"`
	LeagueXP int `json:"league_xp"`
}

// LevelResult is returned by every XP grant.
type LevelResult struct {
	LevelUp  bool `json:"level_up"`
	NewLevel int  `json:"new_level"`
}

// LevelForXP is floor(xp/100)+1.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// Add credits amount to both the lifetime and the weekly counters. Multipliers
// are applied by the caller.
func (s XPState) Add(amount int) (XPState, LevelResult, error) {
	if amount < 0 {
		return s, LevelResult{NewLevel: s.Level}, fmt.Errorf("xp amount %d: %w", amount, ErrOutOfRange)
	}

	prev := s.Level
	s.XP += amount
	s.LeagueXP += amount
	s.Level = LevelForXP(s.XP)

	return s, LevelResult{LevelUp: s.Level > prev, NewLevel: s.Level}, nil
}

// ApplyMultiplier scales a base reward by an active boost, rounding down.
// Multipliers below 1 are treated as 1.
func ApplyMultiplier(base int, multiplier float64) int {
	if multiplier < 1 {
		multiplier = 1
	}
	return int(math.Floor(float64(base) * multiplier))
}

// XPProgress describes where a user sits inside the current level band.
type XPProgress struct {
	CurrentLevel int `json:"current_level"`
	CurrentXP    int `json:"current_xp"`
	LevelStartXP int `json:"level_start_xp"`
	NextLevelXP  int `json:"next_level_xp"`
	XPInLevel    int `json:"xp_in_level"`
	XPRemaining  int `json:"xp_remaining"`
	Percentage   int `json:"percentage"`
}

func ProgressFor(xp int) XPProgress {
	level := LevelForXP(xp)
	start := (level - 1) * XPPerLevel
	next := level * XPPerLevel
	in := xp - start
	if in < 0 {
		in = 0
	}
	return XPProgress{
		CurrentLevel: level,
		CurrentXP:    xp,
		LevelStartXP: start,
		NextLevelXP:  next,
		XPInLevel:    in,
		XPRemaining:  next - xp,
		Percentage:   in * 100 / XPPerLevel,
	}
}
