package progression

import (
	"math"
	"time"
)

// SRS tuning. The ease factor never leaves [MinEaseFactor, MaxEaseFactor].
const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.5
	InitialInterval   = 1

	correctProficiencyGain   = 10
	incorrectProficiencyLoss = 5
	correctEaseGain          = 0.1
	incorrectEasePenalty     = 0.2
	maxProficiency           = 100
)

// CardState is the spaced-repetition state of one word for one user.
type CardState struct {
	Proficiency    int       `json:"proficiency"`
	EaseFactor     float64   `json:"ease_factor"`
	Interval       int       `json:"interval"`
	LastReviewed   time.Time `json:"last_reviewed"`
	NextReview     time.Time `json:"next_review"`
	CorrectCount   int       `json:"correct_count"`
	IncorrectCount int       `json:"incorrect_count"`
}

// NewCardState is the state of a word that has never been reviewed.
func NewCardState() CardState {
	return CardState{
		Proficiency: 0,
		EaseFactor:  InitialEaseFactor,
		Interval:    InitialInterval,
	}
}

// Review applies one answer to the card and returns the new state.
func (s CardState) Review(correct bool, now time.Time) CardState {
	if s.EaseFactor == 0 {
		s.EaseFactor = InitialEaseFactor
	}
	if s.Interval < InitialInterval {
		s.Interval = InitialInterval
	}

	if correct {
		s.CorrectCount++
		s.Proficiency = min(maxProficiency, s.Proficiency+correctProficiencyGain)
		s.Interval = int(math.Round(float64(s.Interval) * s.EaseFactor))
		s.EaseFactor = math.Min(MaxEaseFactor, roundEase(s.EaseFactor+correctEaseGain))
	} else {
		s.IncorrectCount++
		s.Proficiency = max(0, s.Proficiency-incorrectProficiencyLoss)
		s.Interval = InitialInterval
		s.EaseFactor = math.Max(MinEaseFactor, roundEase(s.EaseFactor-incorrectEasePenalty))
	}

	s.LastReviewed = now
	s.NextReview = now.AddDate(0, 0, s.Interval)
	return s
}

// IsDue reports whether the card should be shown again at now.
func (s CardState) IsDue(now time.Time) bool {
	return !s.NextReview.After(now)
}

// Mastered is true once the word reaches full proficiency.
func (s CardState) Mastered() bool {
	return s.Proficiency >= maxProficiency
}

// roundEase trims float noise so repeated ±0.1/0.2 steps land on clean values.
func roundEase(f float64) float64 {
	return math.Round(f*100) / 100
}
