package services

import (
	"context"
	"testing"
	"time"

	"lingo-progress-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// firstRand always draws the first template of each pool.
type firstRand struct{}

func (firstRand) Intn(int) int { return 0 }

type testEnv struct {
	db           *gorm.DB
	clock        *testClock
	progression  *ProgressionService
	missions     *MissionService
	achievements *AchievementService
	games        *GameService
	lessons      *LessonService
	vocabulary   *VocabularyService
	shop         *ShopService
	streak       *StreakService
	stats        *StatsService
	leaderboard  *LeaderboardService
	league       *LeagueService
	friends      *FriendService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	clk := &testClock{now: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}

	e := &testEnv{db: db, clock: clk}
	e.progression = NewProgressionService(db)
	e.progression.Now = clk.Now
	e.missions = NewMissionService(db, e.progression, firstRand{})
	e.missions.Now = clk.Now
	e.achievements = NewAchievementService(db, e.progression)
	e.games = NewGameService(db, e.progression, e.missions, e.achievements)
	e.games.Now = clk.Now
	e.lessons = NewLessonService(db, e.progression, e.missions, e.achievements)
	e.lessons.Now = clk.Now
	e.vocabulary = NewVocabularyService(db, e.progression, e.missions, e.achievements)
	e.vocabulary.Now = clk.Now
	e.shop = NewShopService(db)
	e.shop.Now = clk.Now
	e.streak = NewStreakService(db, e.missions)
	e.streak.Now = clk.Now
	e.stats = NewStatsService(db)
	e.stats.Now = clk.Now
	e.leaderboard = NewLeaderboardService(db, 10*time.Minute, nil)
	e.leaderboard.Now = clk.Now
	e.league = NewLeagueService(db, e.leaderboard)
	e.league.Now = clk.Now
	e.friends = NewFriendService(db)
	e.friends.Now = clk.Now
	return e
}

func (e *testEnv) profile(t *testing.T, userID string) *models.UserProfile {
	t.Helper()
	p, err := e.progression.GetProfile(userID)
	require.NoError(t, err)
	return p
}

// seedProfile inserts a profile with the given fields already set.
func (e *testEnv) seedProfile(t *testing.T, p models.UserProfile) {
	t.Helper()
	require.NoError(t, e.db.Create(&p).Error)
}

var bg = context.Background()
