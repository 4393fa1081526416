package progression

import "time"

// StreakState is the slice of a profile the streak engine owns.
type StreakState struct {
	StreakDays       int        `json:"streak_days"`
	LastStreakDate   *time.Time `json:"last_streak_date"`
	FreezesAvailable int        `json:"freezes_available"`
}

type StreakOutcome struct {
	Changed    bool `json:"changed"`
	Extended   bool `json:"extended"`
	FreezeUsed bool `json:"freeze_used"`
	Broken     bool `json:"broken"`
}

// DaysBetween counts calendar days from a to b in b's location.
func DaysBetween(a, b time.Time) int {
	from := StartOfDay(a.In(b.Location()))
	to := StartOfDay(b)
	// Dates are built at UTC midnight so DST shifts do not skew the count.
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// Update records a qualifying activity at now.
func (s StreakState) Update(now time.Time) (StreakState, StreakOutcome) {
	today := StartOfDay(now)

	if s.LastStreakDate == nil {
		s.StreakDays = 1
		s.LastStreakDate = &today
		return s, StreakOutcome{Changed: true, Extended: true}
	}

	var out StreakOutcome
	switch d := DaysBetween(*s.LastStreakDate, now); {
	case d <= 0:
		return s, StreakOutcome{}
	case d == 1:
		s.StreakDays++
		out.Extended = true
	case d == 2 && s.FreezesAvailable > 0:
		s.FreezesAvailable--
		out.FreezeUsed = true
	default:
		s.StreakDays = 1
		out.Broken = true
	}

	out.Changed = true
	s.LastStreakDate = &today
	return s, out
}
