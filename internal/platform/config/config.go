package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "bolsas/pkg/platform/strings"
)

// Config is the full process configuration, read once at start-up.
type Config struct {
	Server    Server
	Database  Database
	Redis     RedisConfig
	Kafka     Kafka
	Documents Documents
	Auth      Auth
	RateLimit RateLimit
	Workflow  Workflow
	LogLevel  string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Database selects PostgreSQL. An empty URL runs with in-memory stores.
type Database struct {
	URL       string
	TxTimeout time.Duration
	MaxConns  int
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka enables the broker-backed notifier when Brokers is non-empty.
type Kafka struct {
	Brokers []string
	Topic   string
}

type Documents struct {
	BaseURL  string
	CacheTTL time.Duration
}

type Auth struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
}

type RateLimit struct {
	PerSecond float64
	Burst     int
}

type Workflow struct {
	RequireSocialBeforeLegal bool
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []string
	fail := func(name string, err error) {
		errs = append(errs, fmt.Sprintf("%s: %v", name, err))
	}

	cfg := Config{
		Server: Server{
			Addr:            getenv("BOLSAS_ADDR", ":8080"),
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 20 * time.Second,
		},
		Database: Database{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: 20,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		},
		Kafka: Kafka{
			Brokers: pstrings.SplitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenv("NOTIFY_TOPIC", "bolsas.application-events"),
		},
		Documents: Documents{
			BaseURL: os.Getenv("DOCUMENTS_BASE_URL"),
		},
		Auth: Auth{
			JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
			Issuer:        getenv("JWT_ISSUER", "bolsas"),
			Audience:      getenv("JWT_AUDIENCE", "bolsas-api"),
		},
		LogLevel: getenv("LOG_LEVEL", "info"),
	}
	if cfg.Auth.JWTSigningKey == "" {
		// Development default; production deployments must override it.
		cfg.Auth.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	var err error
	if cfg.Database.TxTimeout, err = durationEnv("TX_TIMEOUT", 5*time.Second); err != nil {
		fail("TX_TIMEOUT", err)
	}
	if cfg.Documents.CacheTTL, err = durationEnv("CHECKLIST_CACHE_TTL", 30*time.Second); err != nil {
		fail("CHECKLIST_CACHE_TTL", err)
	}
	if cfg.RateLimit.PerSecond, err = floatEnv("RATE_LIMIT_RPS", 10); err != nil {
		fail("RATE_LIMIT_RPS", err)
	}
	if cfg.RateLimit.Burst, err = intEnv("RATE_LIMIT_BURST", 20); err != nil {
		fail("RATE_LIMIT_BURST", err)
	}
	if cfg.Workflow.RequireSocialBeforeLegal, err = boolEnv("REQUIRE_SOCIAL_BEFORE_LEGAL", false); err != nil {
		fail("REQUIRE_SOCIAL_BEFORE_LEGAL", err)
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return f, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

