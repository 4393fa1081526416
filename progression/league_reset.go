package progression

import (
	"cmp"
	"slices"
)

// PromotionRate is the share of a tier moved up (ceil) and down (floor) each week.
const PromotionRate = 0.3

// LeagueMember is one row of the pre-reset snapshot.
type LeagueMember struct {
	UserID   string
	League   League
	LeagueXP int
}

type LeagueMove struct {
	UserID string `json:"user_id"`
	From   League `json:"from"`
	To     League `json:"to"`
}

// WeeklyPlan is the full outcome of a weekly reset, computed before anything is written.
type WeeklyPlan struct {
	Moves    []LeagueMove `json:"moves"`
	Promoted int          `json:"promoted"`
	Demoted  int          `json:"demoted"`
	// Members is every user whose leagueXP must be zeroed.
	Members int `json:"members"`
}

// PromotionWindow returns how many members of a tier of size n move up and
// down. The two windows never overlap: demotions are capped at whatever the
// promotion window leaves.
func PromotionWindow(n int) (promote, demote int) {
	if n <= 0 {
		return 0, 0
	}
	promote = (n*3 + 9) / 10
	demote = min(n*3/10, n-promote)
	return promote, demote
}

// PlanWeeklyReset ranks each tier by LeagueXP descending (ties keep input
// order) and decides every move from that one snapshot. Promotion is a no-op
// at the top tier and demotion at the bottom, but those users still hold
// their window slots.
func PlanWeeklyReset(members []LeagueMember) WeeklyPlan {
	byTier := make(map[League][]LeagueMember, len(Leagues))
	for _, m := range members {
		byTier[m.League] = append(byTier[m.League], m)
	}

	plan := WeeklyPlan{Members: len(members)}
	for _, tier := range Leagues {
		group := byTier[tier]
		if len(group) == 0 {
			continue
		}
		slices.SortStableFunc(group, func(a, b LeagueMember) int {
			return cmp.Compare(b.LeagueXP, a.LeagueXP)
		})

		promote, demote := PromotionWindow(len(group))
		if up, ok := tier.Promote(); ok {
			for _, m := range group[:promote] {
				plan.Moves = append(plan.Moves, LeagueMove{UserID: m.UserID, From: tier, To: up})
				plan.Promoted++
			}
		}
		if down, ok := tier.Demote(); ok {
			for _, m := range group[len(group)-demote:] {
				plan.Moves = append(plan.Moves, LeagueMove{UserID: m.UserID, From: tier, To: down})
				plan.Demoted++
			}
		}
	}
	return plan
}
