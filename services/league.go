package services

import (
	"context"
	"log"
	"time"

	"lingo-progress-system/models"
	"lingo-progress-system/progression"

	"gorm.io/gorm"
)

type LeagueService struct {
	DB          *gorm.DB
	Now         func() time.Time
	Leaderboard *LeaderboardService
}

func NewLeagueService(db *gorm.DB, leaderboard *LeaderboardService) *LeagueService {
	return &LeagueService{DB: db, Now: time.Now, Leaderboard: leaderboard}
}

// WeeklyReset moves users between tiers and zeroes leagueXP. Every decision is
// taken from one snapshot read inside the same transaction that applies it;
// the leaderboards are rebuilt afterwards.
func (s *LeagueService) WeeklyReset(ctx context.Context) (*progression.WeeklyPlan, error) {
	var plan progression.WeeklyPlan

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profiles []models.UserProfile
		if err := tx.Select("id", "external_user_id", "league", "league_xp").
			Order("league_xp desc").Order("id asc").
			Find(&profiles).Error; err != nil {
			return err
		}

		members := make([]progression.LeagueMember, len(profiles))
		for i, p := range profiles {
			members[i] = progression.LeagueMember{UserID: p.ExternalUserID, League: p.League, LeagueXP: p.LeagueXP}
		}
		plan = progression.PlanWeeklyReset(members)

		for _, mv := range plan.Moves {
			if err := tx.Model(&models.UserProfile{}).
				Where("external_user_id = ?", mv.UserID).
				Update("league", mv.To).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.UserProfile{}).
			Where("1 = 1").
			Updates(map[string]any{"league_xp": 0, "league_rank": 0}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LEAGUE] 🔄 Weekly reset: %d members, %d promoted, %d demoted", plan.Members, plan.Promoted, plan.Demoted)

	if s.Leaderboard != nil {
		if err := s.Leaderboard.RebuildAll(ctx); err != nil {
			log.Printf("[LEAGUE] ⚠️ leaderboard rebuild after reset failed: %v", err)
		}
	}
	return &plan, nil
}
