package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Port                 string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	JWTSecret            string
	JWTExpirationHours   int
	FrontendURL          string
	AllowedOrigins       []string
	SessionTTL           time.Duration
	OAuthConfig          OAuthConfig
	// EngineDepths maps a difficulty level to the search depth handed to
	// the solver.
	EngineDepths map[string]int
}

var AppConfig *Config

func LoadConfig() *Config {
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")

	// Build allowed origins list (frontend URL + CSV extras)
	allowedOrigins := []string{frontendURL}
	if extras := GetEnv("ALLOWED_ORIGINS", ""); extras != "" {
		for _, origin := range strings.Split(extras, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	AppConfig = &Config{
		Port:                 GetEnv("PORT", "8080"),
		DatabaseURL:          GetEnv("DATABASE_URL", ""),
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisURL:             GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:            GetEnv("JWT_SECRET", "change-this-in-production"),
		JWTExpirationHours:   GetEnvAsInt("JWT_EXPIRATION_HOURS", 72),
		FrontendURL:          frontendURL,
		AllowedOrigins:       allowedOrigins,
		SessionTTL:           time.Duration(GetEnvAsInt("SESSION_TTL_HOURS", 72)) * time.Hour,
		OAuthConfig:          *LoadOAuthConfig(),
		EngineDepths: map[string]int{
			"easy":   GetEnvAsInt("ENGINE_DEPTH_EASY", 2),
			"medium": GetEnvAsInt("ENGINE_DEPTH_MEDIUM", 4),
			"hard":   GetEnvAsInt("ENGINE_DEPTH_HARD", 7),
		},
	}

	return AppConfig
}

// EngineDepth resolves a difficulty name to a search depth, defaulting to
// medium for anything unknown.
func (c *Config) EngineDepth(difficulty string) int {
	if depth, ok := c.EngineDepths[difficulty]; ok {
		return depth
	}
	return c.EngineDepths["medium"]
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).
			Msg("invalid integer env value, using default")
		return defaultValue
	}
	return value
}
