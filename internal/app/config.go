package app

import (
	"strings"
	"time"

	"github.com/adeptlearn/tutor-backend/internal/adaptive"
	"github.com/adeptlearn/tutor-backend/internal/platform/envutil"
	"github.com/adeptlearn/tutor-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	Environment     string
	Version         string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// SSEIdleTimeout of zero keeps streams open until the client disconnects.
	SSEIdleTimeout    time.Duration
	MaxInflightPushes int

	// RealtimeBus selects the push relay: "" for in-process, "redis" to relay
	// through pub/sub so deployments with multiple instances deliver pushes
	// to whichever instance holds the connection.
	RealtimeBus  string
	RedisAddr    string
	RedisChannel string

	SeedTopics bool

	// Adaptive carries the evaluator tunables with per-deployment env
	// overrides for the thresholds and window.
	Adaptive adaptive.Config
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:              envutil.GetEnv("PORT", "8080", log),
		Environment:       envutil.GetEnv("ENVIRONMENT", "development", log),
		Version:           envutil.GetEnv("SERVICE_VERSION", "dev", log),
		JWTSecretKey:      envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:    time.Duration(envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		RefreshTokenTTL:   time.Duration(envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)) * time.Second,
		SSEIdleTimeout:    time.Duration(envutil.GetEnvAsInt("SSE_IDLE_TIMEOUT", 0, log)) * time.Second,
		MaxInflightPushes: envutil.GetEnvAsInt("PUSH_MAX_INFLIGHT", 64, log),
		RealtimeBus:       strings.ToLower(envutil.GetEnv("REALTIME_BUS", "", log)),
		RedisAddr:         envutil.GetEnv("REDIS_ADDR", "localhost:6379", log),
		RedisChannel:      envutil.GetEnv("REDIS_CHANNEL", "realtime", log),
		SeedTopics:        envutil.GetEnv("SEED_TOPICS", "true", log) == "true",
		Adaptive:          loadAdaptiveConfig(log),
	}
}

func loadAdaptiveConfig(log *logger.Logger) adaptive.Config {
	cfg := adaptive.DefaultConfig()
	cfg.Window = envutil.GetEnvAsInt("ADAPTIVE_WINDOW", cfg.Window, log)
	cfg.UpThreshold = envutil.GetEnvAsFloat("ADAPTIVE_UP_THRESHOLD", cfg.UpThreshold, log)
	cfg.DownThreshold = envutil.GetEnvAsFloat("ADAPTIVE_DOWN_THRESHOLD", cfg.DownThreshold, log)
	cfg.UpStreak = envutil.GetEnvAsInt("ADAPTIVE_UP_STREAK", cfg.UpStreak, log)
	cfg.DownStreak = envutil.GetEnvAsInt("ADAPTIVE_DOWN_STREAK", cfg.DownStreak, log)
	cfg.Cooldown = envutil.GetEnvAsInt("ADAPTIVE_COOLDOWN", cfg.Cooldown, log)
	return cfg
}
