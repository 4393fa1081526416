package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lingo-progress-system/models"
	"lingo-progress-system/progression"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotPublisher mirrors rebuilt snapshots to external storage (R2).
type SnapshotPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) (string, error)
}

type LeaderboardService struct {
	DB        *gorm.DB
	Now       func() time.Time
	TTL       time.Duration
	Publisher SnapshotPublisher // optional
}

func NewLeaderboardService(db *gorm.DB, ttl time.Duration, publisher SnapshotPublisher) *LeaderboardService {
	if ttl <= 0 {
		ttl = progression.LeaderboardTTL
	}
	return &LeaderboardService{DB: db, Now: time.Now, TTL: ttl, Publisher: publisher}
}

// Board identifies one snapshot.
type Board struct {
	Type   progression.LeaderboardType
	Period string
}

func GlobalBoard() Board {
	return Board{Type: progression.LeaderboardGlobal, Period: progression.AllTimePeriod}
}

func WeeklyBoard(now time.Time) Board {
	return Board{Type: progression.LeaderboardWeekly, Period: progression.WeeklyPeriod(now)}
}

func LeagueBoard(tier progression.League) Board {
	return Board{Type: progression.LeaderboardLeague, Period: string(tier)}
}

// Get returns the snapshot for b, rebuilding it first when missing or stale.
// limit trims the returned rankings only.
func (s *LeaderboardService) Get(ctx context.Context, b Board, limit int) (*models.LeaderboardSnapshot, error) {
	var snap models.LeaderboardSnapshot
	err := s.DB.Where("type = ? AND period = ?", b.Type, b.Period).First(&snap).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && progression.IsStale(snap.BuiltAt, s.Now(), s.TTL)):
		rebuilt, err := s.Rebuild(ctx, b)
		if err != nil {
			return nil, err
		}
		snap = *rebuilt
	case err != nil:
		return nil, err
	}

	if limit > 0 && limit < len(snap.Rankings) {
		snap.Rankings = snap.Rankings[:limit]
	}
	return &snap, nil
}

// Rebuild recomputes b from the profiles table and replaces the stored snapshot.
func (s *LeaderboardService) Rebuild(ctx context.Context, b Board) (*models.LeaderboardSnapshot, error) {
	q := s.DB.WithContext(ctx).Model(&models.UserProfile{})
	scoreCol := "league_xp"
	switch b.Type {
	case progression.LeaderboardGlobal:
		scoreCol = "xp"
	case progression.LeaderboardWeekly:
	case progression.LeaderboardLeague:
		tier, err := progression.ParseLeague(b.Period)
		if err != nil {
			return nil, err
		}
		q = q.Where("league = ?", tier)
	default:
		return nil, fmt.Errorf("leaderboard type %q: %w", b.Type, progression.ErrOutOfRange)
	}

	var profiles []models.UserProfile
	if err := q.Order(scoreCol + " desc").Order("id asc").
		Limit(progression.MaxLeaderboardEntries).
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	rows := make([]progression.Ranked, len(profiles))
	for i, p := range profiles {
		score := p.LeagueXP
		if b.Type == progression.LeaderboardGlobal {
			score = p.XP
		}
		rows[i] = progression.Ranked{
			UserID: p.ExternalUserID,
			Name:   p.Name,
			Avatar: p.Avatar,
			Level:  p.Level,
			League: p.League,
			Score:  score,
		}
	}

	snap := models.LeaderboardSnapshot{
		Type:     b.Type,
		Period:   b.Period,
		Rankings: progression.RankEntries(rows, progression.MaxLeaderboardEntries),
		BuiltAt:  s.Now(),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type"}, {Name: "period"}},
			DoUpdates: clause.AssignmentColumns([]string{"rankings", "built_at"}),
		}).Create(&snap).Error; err != nil {
			return err
		}
		if b.Type != progression.LeaderboardLeague {
			return nil
		}
		tier, err := progression.ParseLeague(b.Period)
		if err != nil {
			return err
		}
		// Members that fell off the board keep no stale rank.
		if err := tx.Model(&models.UserProfile{}).
			Where("league = ? AND league_rank <> 0", tier).
			Update("league_rank", 0).Error; err != nil {
			return err
		}
		for _, e := range snap.Rankings {
			if err := tx.Model(&models.UserProfile{}).
				Where("external_user_id = ?", e.UserID).
				Update("league_rank", e.Rank).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &snap)
	return &snap, nil
}

// RebuildAll refreshes the global, current weekly and every league board.
func (s *LeaderboardService) RebuildAll(ctx context.Context) error {
	boards := []Board{GlobalBoard(), WeeklyBoard(s.Now())}
	for _, tier := range progression.Leagues {
		boards = append(boards, LeagueBoard(tier))
	}

	var errs []error
	for _, b := range boards {
		if _, err := s.Rebuild(ctx, b); err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", b.Type, b.Period, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Printf("🏆 Leaderboards rebuilt (%d boards)", len(boards))
	return nil
}

func (s *LeaderboardService) publish(ctx context.Context, snap *models.LeaderboardSnapshot) {
	if s.Publisher == nil {
		return
	}
	key := fmt.Sprintf("leaderboards/%s/%s.json", snap.Type, snap.Period)
	if _, err := s.Publisher.PublishJSON(ctx, key, snap); err != nil {
		log.Printf("⚠️ leaderboard publish %s failed: %v", key, err)
	}
}

type UserRank struct {
	Rank  int `json:"rank"` // 0 when outside the top entries
	Score int `json:"score"`
}

// UserRank looks the user up in a board's current snapshot.
func (s *LeaderboardService) UserRank(ctx context.Context, b Board, externalUserID string) (*UserRank, error) {
	snap, err := s.Get(ctx, b, 0)
	if err != nil {
		return nil, err
	}
	for _, e := range snap.Rankings {
		if e.UserID == externalUserID {
			return &UserRank{Rank: e.Rank, Score: e.Score}, nil
		}
	}

	var prof models.UserProfile
	err = s.DB.WithContext(ctx).Where("external_user_id = ?", externalUserID).First(&prof).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &UserRank{}, nil
	}
	if err != nil {
		return nil, err
	}
	score := prof.LeagueXP
	if b.Type == progression.LeaderboardGlobal {
		score = prof.XP
	}
	return &UserRank{Score: score}, nil
}
