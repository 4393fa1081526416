package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler owns the background jobs. Build it once in main and Shutdown on exit.
type Scheduler struct {
	sched       gocron.Scheduler
	missions    *MissionService
	shop        *ShopService
	league      *LeagueService
	leaderboard *LeaderboardService
	interval    time.Duration
}

func NewScheduler(missions *MissionService, shop *ShopService, league *LeagueService, leaderboard *LeaderboardService, rebuildEvery time.Duration, opts ...gocron.SchedulerOption) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if rebuildEvery <= 0 {
		rebuildEvery = 10 * time.Minute
	}
	s := &Scheduler{
		sched:       sched,
		missions:    missions,
		shop:        shop,
		league:      league,
		leaderboard: leaderboard,
		interval:    rebuildEvery,
	}
	if err := s.register(); err != nil {
		_ = sched.Shutdown()
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) register() error {
	midnight := gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))

	if _, err := s.sched.NewJob(
		gocron.DailyJob(1, midnight),
		gocron.NewTask(s.RunDailyReset),
		gocron.WithName("daily-reset"),
	); err != nil {
		return fmt.Errorf("register daily reset: %w", err)
	}

	if _, err := s.sched.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Monday), midnight),
		gocron.NewTask(func() { s.RunWeeklyReset(context.Background()) }),
		gocron.WithName("weekly-league-reset"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("register weekly reset: %w", err)
	}

	if _, err := s.sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.RunLeaderboardRebuild(context.Background()) }),
		gocron.WithName("leaderboard-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("register leaderboard rebuild: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
	log.Printf("[Scheduler] ✅ started (%d jobs)", len(s.sched.Jobs()))
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

// JobNames lists the registered jobs.
func (s *Scheduler) JobNames() []string {
	jobs := s.sched.Jobs()
	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.Name()
	}
	return names
}

// RunDailyReset regenerates yesterday's mission sets and prunes expired boosts.
func (s *Scheduler) RunDailyReset() {
	if n, err := s.missions.ResetStale(); err != nil {
		log.Printf("[Scheduler] ❌ mission reset failed: %v", err)
	} else {
		log.Printf("[Scheduler] 🗓️ reset %d mission set(s)", n)
	}
	if n, err := s.shop.PruneExpiredBoosts(); err != nil {
		log.Printf("[Scheduler] ❌ boost pruning failed: %v", err)
	} else if n > 0 {
		log.Printf("[Scheduler] 🧹 pruned boosts in %d inventories", n)
	}
}

func (s *Scheduler) RunWeeklyReset(ctx context.Context) {
	if _, err := s.league.WeeklyReset(ctx); err != nil {
		log.Printf("[Scheduler] ❌ weekly league reset failed: %v", err)
	}
}

func (s *Scheduler) RunLeaderboardRebuild(ctx context.Context) {
	if err := s.leaderboard.RebuildAll(ctx); err != nil {
		log.Printf("[Scheduler] ❌ leaderboard rebuild failed: %v", err)
	}
}
