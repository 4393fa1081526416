package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lingo-progress-system/middleware"
	"lingo-progress-system/models"
	"lingo-progress-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testToken = "gateway-secret"

type zeroRand struct{}

func (zeroRand) Intn(int) int { return 0 }

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	prog := services.NewProgressionService(db)
	missions := services.NewMissionService(db, prog, zeroRand{})
	achievements := services.NewAchievementService(db, prog)
	shop := services.NewShopService(db)
	require.NoError(t, shop.SeedDefaults())
	leaderboard := services.NewLeaderboardService(db, 10*time.Minute, nil)

	app := fiber.New()
	app.Use(middleware.GatewayAuthMiddleware(testToken))
	SetupProgressionRoutes(app, prog, services.NewStatsService(db), achievements, services.NewStreakService(db, missions))
	SetupGameRoutes(app, services.NewGameService(db, prog, missions, achievements))
	SetupLessonRoutes(app, services.NewLessonService(db, prog, missions, achievements))
	SetupVocabularyRoutes(app, services.NewVocabularyService(db, prog, missions, achievements))
	SetupMissionRoutes(app, missions)
	SetupLeaderboardRoutes(app, leaderboard)
	SetupFriendRoutes(app, services.NewFriendService(db))
	SetupShopRoutes(app, shop)
	SetupAdminRoutes(app, prog, services.NewLeagueService(db, leaderboard), leaderboard)
	return app, db
}

type call struct {
	method, path, body, user, roles string
}

func do(t *testing.T, app *fiber.App, c call) (int, map[string]any) {
	t.Helper()
	var body io.Reader
	if c.body != "" {
		body = strings.NewReader(c.body)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if c.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" {
		req.Header.Set("X-User-ID", c.user)
	}
	if c.roles != "" {
		req.Header.Set("X-User-Roles", c.roles)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestUserRoutesRequireUser(t *testing.T) {
	app, _ := newTestApp(t)
	status, _ := do(t, app, call{method: http.MethodGet, path: "/user/progress"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestProgressLazilyCreatesProfile(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := do(t, app, call{method: http.MethodGet, path: "/user/progress", user: "u1"})
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["level"])
	assert.Equal(t, "bronze", body["league"])
	assert.Equal(t, "Bronze", body["league_name"])
}

func TestGameRoute(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, call{method: http.MethodPost, path: "/user/progress/game", user: "u1",
		body: `{"gameName":"memory","score":80,"timeSpent":30}`})
	require.Equal(t, fiber.StatusOK, status)
	stats := body["game_stats"].(map[string]any)
	assert.EqualValues(t, 80, stats["best_score"])

	status, _ = do(t, app, call{method: http.MethodPost, path: "/user/progress/game", user: "u1",
		body: `{"gameName":"memory","score":-1}`})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/user/progress/game", user: "u1",
		body: `{"gameName":"memory"}`})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/user/progress/game", user: "u1",
		body: `{"gameName":"memory","score":101,"timeSpent":30}`})
	assert.Equal(t, fiber.StatusBadRequest, status, "scores are capped at 100")
}

func TestLessonRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, call{method: http.MethodPost, path: "/lessons/travel/A2/start", user: "u1"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/user/progress/lesson", user: "u1",
		body: `{"themeId":"travel","level":"A2","score":90}`})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := do(t, app, call{method: http.MethodPost, path: "/user/progress/lesson", user: "u1",
		body: `{"themeId":"travel","level":"A1","score":95}`})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["first_completion"])
	assert.NotNil(t, body["unlocked"])

	status, _ = do(t, app, call{method: http.MethodPost, path: "/lessons/travel/A2/start", user: "u1"})
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/user/progress/lesson", user: "u1",
		body: `{"themeId":"travel","level":"A1","score":101}`})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, call{method: http.MethodGet, path: "/lessons/travel/Z9", user: "u1"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestVocabularyRoutes(t *testing.T) {
	app, db := newTestApp(t)

	status, body := do(t, app, call{method: http.MethodPost, path: "/user/vocabulary/review", user: "u1",
		body: `{"word":"adios"}`})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "word and isCorrect are required", body["error"])
	var cards int64
	require.NoError(t, db.Model(&models.VocabularyCard{}).Count(&cards).Error)
	assert.Zero(t, cards, "a review without an answer must not create a card")

	status, _ = do(t, app, call{method: http.MethodPost, path: "/user/vocabulary/review", user: "u1",
		body: `{"word":"Hola","isCorrect":false}`})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/user/vocabulary/review", user: "u1",
		body: `{"word":"  ","isCorrect":true}`})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = do(t, app, call{method: http.MethodGet, path: "/user/vocabulary/due", user: "u1"})
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 0, body["count"], "an incorrect answer is due again tomorrow")
}

func TestMissionRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, call{method: http.MethodGet, path: "/missions/daily", user: "u1"})
	require.Equal(t, fiber.StatusOK, status)
	missions := body["missions"].([]any)
	require.Len(t, missions, 3)
	firstID := missions[0].(map[string]any)["mission_id"].(string)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/missions/claim/" + firstID, user: "u1"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = do(t, app, call{method: http.MethodPost, path: "/missions/update-progress", user: "u1",
		body: `{"type":"xp","amount":20}`})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["updated"])

	status, _ = do(t, app, call{method: http.MethodPost, path: "/missions/claim/" + firstID, user: "u1"})
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/missions/claim/nope", user: "u1"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/missions/update-progress", user: "u1",
		body: `{"type":"dancing"}`})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLeaderboardRoutes(t *testing.T) {
	app, db := newTestApp(t)
	require.NoError(t, db.Create(&models.UserProfile{ExternalUserID: "ann", Name: "Ann", XP: 300, LeagueXP: 30}).Error)

	status, body := do(t, app, call{method: http.MethodGet, path: "/leaderboard/global?limit=5", user: "ann"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["rankings"].([]any), 1)
	assert.EqualValues(t, 1, body["me"].(map[string]any)["rank"])

	status, _ = do(t, app, call{method: http.MethodGet, path: "/leaderboard/weekly"})
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, call{method: http.MethodGet, path: "/leaderboard/league/wood"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestFriendRoutes(t *testing.T) {
	app, db := newTestApp(t)
	require.NoError(t, db.Create(&models.UserProfile{ExternalUserID: "ann", Name: "Ann", XP: 300}).Error)
	require.NoError(t, db.Create(&models.UserProfile{ExternalUserID: "bob", Name: "Bob", XP: 700}).Error)

	status, _ := do(t, app, call{method: http.MethodGet, path: "/leaderboard/friends"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/friends/request/ann", user: "ann"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = do(t, app, call{method: http.MethodPost, path: "/friends/request/ghost", user: "ann"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body := do(t, app, call{method: http.MethodPost, path: "/friends/request/bob", user: "ann"})
	require.Equal(t, fiber.StatusCreated, status)
	requestID := body["id"].(string)

	status, body = do(t, app, call{method: http.MethodGet, path: "/friends/requests", user: "bob"})
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])

	status, _ = do(t, app, call{method: http.MethodPost, path: "/friends/accept/" + requestID, user: "bob"})
	require.Equal(t, fiber.StatusOK, status)

	status, body = do(t, app, call{method: http.MethodGet, path: "/leaderboard/friends", user: "ann"})
	require.Equal(t, fiber.StatusOK, status)
	rankings := body["rankings"].([]any)
	require.Len(t, rankings, 2)
	assert.Equal(t, "bob", rankings[0].(map[string]any)["user_id"])
	assert.EqualValues(t, 2, body["user_rank"])
	assert.EqualValues(t, 2, body["total_players"])

	status, _ = do(t, app, call{method: http.MethodGet, path: "/friends/search?q=b", user: "ann"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, body = do(t, app, call{method: http.MethodGet, path: "/friends/search?q=bo", user: "ann"})
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])

	status, _ = do(t, app, call{method: http.MethodDelete, path: "/friends/bob", user: "ann"})
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = do(t, app, call{method: http.MethodDelete, path: "/friends/bob", user: "ann"})
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = do(t, app, call{method: http.MethodDelete, path: "/friends/reject/" + requestID, user: "bob"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = do(t, app, call{method: http.MethodGet, path: "/friends", user: "bob"})
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 0, body["total"])
}

func TestShopRoutes(t *testing.T) {
	app, db := newTestApp(t)
	require.NoError(t, db.Create(&models.UserProfile{ExternalUserID: "u1", Coins: 120}).Error)

	status, _ := do(t, app, call{method: http.MethodPost, path: "/shop/purchase/streak_freeze", user: "u1"})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/shop/purchase/streak_freeze", user: "u1"})
	assert.Equal(t, fiber.StatusBadRequest, status, "insufficient coins")

	status, _ = do(t, app, call{method: http.MethodPost, path: "/shop/purchase/unknown", user: "u1"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body := do(t, app, call{method: http.MethodGet, path: "/shop/inventory", user: "u1"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["items"].([]any), 1)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/shop/use/streak_freeze", user: "u1"})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestAdminRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	grant := `{"user_id":"u9","xp":250}`
	status, _ := do(t, app, call{method: http.MethodPost, path: "/s/admin/xp/grant", user: "ops", body: grant})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/s/admin/xp/grant", user: "ops", roles: "admin", body: grant})
	require.Equal(t, fiber.StatusOK, status)

	status, body := do(t, app, call{method: http.MethodGet, path: "/user/progress", user: "u9"})
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 3, body["level"])

	status, _ = do(t, app, call{method: http.MethodPost, path: "/s/admin/league/reset", user: "ops", roles: "admin"})
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, call{method: http.MethodPost, path: "/s/admin/leaderboard/rebuild", user: "ops", roles: "admin"})
	assert.Equal(t, fiber.StatusOK, status)
}
