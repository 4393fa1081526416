package progression

import (
	"fmt"
	"strings"
	"time"
)

// MissionType is the activity a mission counts.
type MissionType string

const (
	MissionXP         MissionType = "xp"
	MissionLessons    MissionType = "lessons"
	MissionGames      MissionType = "games"
	MissionStreak     MissionType = "streak"
	MissionVocabulary MissionType = "vocabulary"
)

func ParseMissionType(s string) (MissionType, error) {
	switch t := MissionType(strings.ToLower(strings.TrimSpace(s))); t {
	case MissionXP, MissionLessons, MissionGames, MissionStreak, MissionVocabulary:
		return t, nil
	}
	return "", fmt.Errorf("mission type %q: %w", s, ErrOutOfRange)
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Reward is granted once when a completed mission is claimed.
type Reward struct {
	Coins int `json:"coins"`
	XP    int `json:"xp"`
}

// MissionTemplate is one entry of a difficulty pool.
type MissionTemplate struct {
	Type        MissionType
	Title       string
	Description string // "{target}" is substituted on generation
	Target      int
	Reward      Reward
}

// MissionPools holds one template list per difficulty, drawn in this order.
var MissionPools = []struct {
	Difficulty Difficulty
	Templates  []MissionTemplate
}{
	{DifficultyEasy, []MissionTemplate{
		{MissionXP, "Earn XP", "Earn {target} XP today", 20, Reward{Coins: 10}},
		{MissionGames, "Play", "Finish {target} game", 1, Reward{Coins: 10}},
		{MissionLessons, "Study", "Finish {target} lesson", 1, Reward{Coins: 15}},
		{MissionVocabulary, "Review", "Review {target} words", 5, Reward{Coins: 10}},
	}},
	{DifficultyMedium, []MissionTemplate{
		{MissionXP, "Stay Active", "Earn {target} XP today", 50, Reward{Coins: 25}},
		{MissionLessons, "Learn More", "Finish {target} lessons", 2, Reward{Coins: 25}},
		{MissionGames, "Practice Games", "Finish {target} games", 3, Reward{Coins: 20}},
		{MissionStreak, "Show Up", "Check in {target} time today", 1, Reward{Coins: 15}},
	}},
	{DifficultyHard, []MissionTemplate{
		{MissionXP, "Push Further", "Earn {target} XP today", 100, Reward{Coins: 50}},
		{MissionLessons, "Master of the Day", "Finish {target} lessons", 3, Reward{Coins: 50}},
		{MissionGames, "Game Champion", "Finish {target} games", 5, Reward{Coins: 50}},
		{MissionVocabulary, "Word Hoard", "Review {target} words", 20, Reward{Coins: 40, XP: 10}},
	}},
}

// RandSource picks template indexes. *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

type Mission struct {
	MissionID   string      `json:"mission_id"`
	Type        MissionType `json:"type"`
	Difficulty  Difficulty  `json:"difficulty"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Target      int         `json:"target"`
	Progress    int         `json:"progress"`
	Reward      Reward      `json:"reward"`
	Completed   bool        `json:"completed"`
	Claimed     bool        `json:"claimed"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// MissionSet is one user's missions for a single calendar day.
type MissionSet struct {
	Missions  []Mission `json:"missions"`
	LastReset time.Time `json:"last_reset"`
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// GenerateMissions draws one template from each difficulty pool.
func GenerateMissions(rng RandSource, now time.Time) MissionSet {
	today := StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	missions := make([]Mission, 0, len(MissionPools))
	for i, pool := range MissionPools {
		t := pool.Templates[rng.Intn(len(pool.Templates))]
		missions = append(missions, Mission{
			MissionID:   fmt.Sprintf("daily_%d_%d", today.UnixMilli(), i),
			Type:        t.Type,
			Difficulty:  pool.Difficulty,
			Title:       t.Title,
			Description: strings.ReplaceAll(t.Description, "{target}", fmt.Sprint(t.Target)),
			Target:      t.Target,
			Reward:      t.Reward,
			ExpiresAt:   tomorrow,
		})
	}
	return MissionSet{Missions: missions, LastReset: today}
}

// NeedsReset is true when the set was generated on an earlier calendar day
// than now, or was never generated.
func (s MissionSet) NeedsReset(now time.Time) bool {
	if len(s.Missions) == 0 || s.LastReset.IsZero() {
		return true
	}
	return StartOfDay(now).After(StartOfDay(s.LastReset.In(now.Location())))
}

// UpdateProgress advances every uncompleted mission of type t. It reports
// whether anything changed.
func (s *MissionSet) UpdateProgress(t MissionType, amount int) bool {
	if amount <= 0 {
		return false
	}
	updated := false
	for i := range s.Missions {
		m := &s.Missions[i]
		if m.Type != t || m.Completed {
			continue
		}
		m.Progress = min(m.Progress+amount, m.Target)
		if m.Progress >= m.Target {
			m.Completed = true
		}
		updated = true
	}
	return updated
}

// Claim marks a completed mission claimed and returns its reward.
func (s *MissionSet) Claim(missionID string) (Reward, error) {
	for i := range s.Missions {
		m := &s.Missions[i]
		if m.MissionID != missionID {
			continue
		}
		if !m.Completed {
			return Reward{}, fmt.Errorf("mission %s not completed: %w", missionID, ErrInvalidState)
		}
		if m.Claimed {
			return Reward{}, fmt.Errorf("mission %s already claimed: %w", missionID, ErrInvalidState)
		}
		m.Claimed = true
		return m.Reward, nil
	}
	return Reward{}, fmt.Errorf("mission %s: %w", missionID, ErrNotFound)
}

// Active returns the missions that have not expired at now.
func (s MissionSet) Active(now time.Time) []Mission {
	out := make([]Mission, 0, len(s.Missions))
	for _, m := range s.Missions {
		if now.Before(m.ExpiresAt) {
			out = append(out, m)
		}
	}
	return out
}
