package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	Port           string
	ServiceToken   string
	AllowedOrigins []string

	SyncServiceURL  string
	SyncEndpoint    string
	SyncInterval    time.Duration
	SyncServiceAuth string

	R2 R2Config

	LeaderboardTTL time.Duration
	SeedShop       bool
}

// R2Config is optional: leaderboard snapshots are only published when Bucket is set.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

func (r R2Config) Enabled() bool {
	return r.Bucket != "" && r.AccountID != ""
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Port:           getEnv("PORT", "5300"),
		ServiceToken:   getEnv("SERVICE_TOKEN", ""),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		SyncServiceURL:  getEnv("SYNC_SERVICE_URL", ""),
		SyncEndpoint:    getEnv("SYNC_ENDPOINT", "/api/v1/public/profiles"),
		SyncInterval:    getDuration("SYNC_INTERVAL", time.Minute),
		SyncServiceAuth: getEnv("SYNC_SERVICE_TOKEN", ""),

		R2: R2Config{
			AccountID:       getEnv("CLOUDFLARE_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
			Bucket:          getEnv("R2_BUCKET_NAME", ""),
			CDNBaseURL:      getEnv("CDN_BASE_URL", ""),
		},

		LeaderboardTTL: getDuration("LEADERBOARD_TTL", 10*time.Minute),
		SeedShop:       getBool("SEED_SHOP", true),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable not set")
	}
	if cfg.ServiceToken == "" {
		return nil, errors.New("SERVICE_TOKEN environment variable not set")
	}
	if cfg.SyncServiceAuth == "" {
		cfg.SyncServiceAuth = cfg.ServiceToken
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️  %s=%q is not a duration, using %s", key, v, defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
