package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	MySQLDSN      string // empty disables history persistence
	RedisURL      string // empty disables the result cache
	EngineURL     string
	EngineTimeout time.Duration
	StagePace     time.Duration
	CacheTTL      time.Duration
	JWTSecret     string
	APIKeys       []string // empty runs the API open (dev mode)
	RateLimit     time.Duration
	AllowOrigins  []string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func getenvDuration(key, def string) time.Duration {
	d, err := time.ParseDuration(getenv(key, def))
	if err != nil {
		log.Fatalf("invalid duration in %s: %v", key, err)
	}
	return d
}

func getenvList(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Load() Config {
	_ = godotenv.Load()

	origins := getenvList("ALLOW_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		MySQLDSN:      os.Getenv("MYSQL_DSN"),
		RedisURL:      os.Getenv("REDIS_URL"),
		EngineURL:     getenv("ENGINE_URL", "http://localhost:9090"),
		EngineTimeout: getenvDuration("ENGINE_TIMEOUT", "90s"),
		StagePace:     getenvDuration("STAGE_PACE", "4s"),
		CacheTTL:      getenvDuration("CACHE_TTL", "1h"),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change-me"),
		APIKeys:       getenvList("API_KEYS"),
		RateLimit:     getenvDuration("RATE_LIMIT", "5s"),
		AllowOrigins:  origins,
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		log.Fatalf("invalid PORT %q", cfg.Port)
	}
	return cfg
}
