package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lingo-progress-system/config"
	"lingo-progress-system/handlers"
	"lingo-progress-system/middleware"
	"lingo-progress-system/models"
	"lingo-progress-system/services"
	"lingo-progress-system/utils"
	"lingo-progress-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ ", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Snapshots are mirrored to R2 only when a bucket is configured.
	var publisher services.SnapshotPublisher
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Publisher(ctx, cfg.R2)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		publisher = r2
		log.Printf("✅ Leaderboard snapshots published to R2 bucket %s", cfg.R2.Bucket)
	}

	progressionService := services.NewProgressionService(db)
	missionService := services.NewMissionService(db, progressionService, nil)
	achievementService := services.NewAchievementService(db, progressionService)
	gameService := services.NewGameService(db, progressionService, missionService, achievementService)
	lessonService := services.NewLessonService(db, progressionService, missionService, achievementService)
	vocabularyService := services.NewVocabularyService(db, progressionService, missionService, achievementService)
	shopService := services.NewShopService(db)
	streakService := services.NewStreakService(db, missionService)
	statsService := services.NewStatsService(db)
	leaderboardService := services.NewLeaderboardService(db, cfg.LeaderboardTTL, publisher)
	leagueService := services.NewLeagueService(db, leaderboardService)
	friendService := services.NewFriendService(db)

	if cfg.SeedShop {
		if err := shopService.SeedDefaults(); err != nil {
			log.Fatal("failed to seed shop:", err)
		}
	}

	scheduler, err := services.NewScheduler(missionService, shopService, leagueService, leaderboardService, cfg.LeaderboardTTL)
	if err != nil {
		log.Fatal("failed to create scheduler:", err)
	}
	scheduler.Start()

	if cfg.SyncServiceURL != "" {
		workers.NewProfileSyncWorker(db, cfg.SyncServiceURL, cfg.SyncEndpoint, cfg.SyncServiceAuth, cfg.SyncInterval).Start(ctx)
	} else {
		log.Println("⚠️  SYNC_SERVICE_URL not set, profile sync disabled")
	}

	app := fiber.New(fiber.Config{
		AppName:      "lingo-progress-system",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 🔐 Only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware(cfg.ServiceToken))

	handlers.SetupProgressionRoutes(app, progressionService, statsService, achievementService, streakService)
	handlers.SetupGameRoutes(app, gameService)
	handlers.SetupLessonRoutes(app, lessonService)
	handlers.SetupVocabularyRoutes(app, vocabularyService)
	handlers.SetupMissionRoutes(app, missionService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService)
	handlers.SetupFriendRoutes(app, friendService)
	handlers.SetupShopRoutes(app, shopService)
	handlers.SetupAdminRoutes(app, progressionService, leagueService, leaderboardService)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("⚠️ server shutdown: %v", err)
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Printf("⚠️ scheduler shutdown: %v", err)
	}
}
