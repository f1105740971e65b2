package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                   string
	AllowedOrigin          string
	DatabaseURL            string
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	AuthSecret             string
	AccessTokenTTLMinutes  int
	SummaryIntervalSeconds int
	LoginRatePerMinute     int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present, without overriding variables that
// are already set.
func Load() Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}
	interval, err := strconv.Atoi(getEnv("SUMMARY_INTERVAL_SECONDS", "30"))
	if err != nil || interval < 1 {
		interval = 30
	}
	loginRate, err := strconv.Atoi(getEnv("LOGIN_RATE_PER_MINUTE", "10"))
	if err != nil || loginRate < 1 {
		loginRate = 10
	}

	cfg := Config{
		Port:                   getEnv("PORT", "8080"),
		AllowedOrigin:          getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                redisDB,
		AuthSecret:             strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes:  tokenTTL,
		SummaryIntervalSeconds: interval,
		LoginRatePerMinute:     loginRate,
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
