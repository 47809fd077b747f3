package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/supportsim/internal/catalog"
	"github.com/godilite/supportsim/internal/domain"
	"github.com/godilite/supportsim/internal/generator"
)

var ErrInvalidEnv = errors.New("invalid environment value")

const (
	defaultWindowStart = "2024-02-01"
	defaultWindowEnd   = "2024-08-07"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv string

	Seed          uint64
	Window        domain.Window
	WeekdayVolume domain.IntRange
	WeekendVolume domain.IntRange
	Headcount     []catalog.Headcount

	DBPath            string
	DBDriver          string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	GRPCPort              int
	GRPCReflectionEnabled bool
	HTTPAddr              string

	ExportPath     string
	PushgatewayURL string
	Serve          bool
}

// LoadFromEnv loads configuration from environment variables. Unlike ports and
// flags, generation parameters have no safe fallback, so a malformed value is
// returned as an error instead of being replaced by its default.
func LoadFromEnv() (*Config, error) {
	portStr := getEnv("GRPC_PORT", "50051")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 50051
	}

	reflectionStr := getEnv("GRPC_REFLECTION_ENABLED", "false")
	reflection, err := strconv.ParseBool(reflectionStr)
	if err != nil {
		reflection = false
	}

	serve, err := strconv.ParseBool(getEnv("SERVE", "false"))
	if err != nil {
		serve = false
	}

	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		ttl = 10 * time.Minute
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}

	maxOpen, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "10"))
	if err != nil {
		maxOpen = 10
	}
	maxIdle, err := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "5"))
	if err != nil {
		maxIdle = 5
	}
	lifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "5m"))
	if err != nil {
		lifetime = 5 * time.Minute
	}

	seed, err := strconv.ParseUint(getEnv("SEED", "42"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: SEED: %v", ErrInvalidEnv, err)
	}

	window, err := domain.ParseWindow(getEnv("WINDOW_START", defaultWindowStart), getEnv("WINDOW_END", defaultWindowEnd))
	if err != nil {
		return nil, fmt.Errorf("%w: WINDOW_START/WINDOW_END: %v", ErrInvalidEnv, err)
	}

	weekday, err := parseRange("WEEKDAY_VOLUME", generator.DefaultWeekdayVolume)
	if err != nil {
		return nil, err
	}
	weekend, err := parseRange("WEEKEND_VOLUME", generator.DefaultWeekendVolume)
	if err != nil {
		return nil, err
	}

	headcount, err := parseHeadcount(os.Getenv("HEADCOUNT"))
	if err != nil {
		return nil, err
	}

	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		Seed:                  seed,
		Window:                window,
		WeekdayVolume:         weekday,
		WeekendVolume:         weekend,
		Headcount:             headcount,
		DBPath:                getEnv("DB_PATH", "./data/supportsim.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		DBMaxOpenConns:        maxOpen,
		DBMaxIdleConns:        maxIdle,
		DBConnMaxLifetime:     lifetime,
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		CacheTTL:              ttl,
		GRPCPort:              port,
		GRPCReflectionEnabled: reflection,
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		ExportPath:            os.Getenv("EXPORT_PATH"),
		PushgatewayURL:        os.Getenv("PUSHGATEWAY_URL"),
		Serve:                 serve,
	}, nil
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// parseRange reads "min-max" or a single number meaning min == max.
func parseRange(key string, fallback domain.IntRange) (domain.IntRange, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}

	lo, hi, found := strings.Cut(raw, "-")
	if !found {
		hi = lo
	}
	minVal, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return domain.IntRange{}, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, key, raw)
	}
	maxVal, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return domain.IntRange{}, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, key, raw)
	}
	return domain.IntRange{Min: minVal, Max: maxVal}, nil
}

// parseHeadcount reads "Department:N,Department:N". Empty means the default plan.
func parseHeadcount(raw string) ([]catalog.Headcount, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return catalog.DefaultHeadcount, nil
	}

	var plan []catalog.Headcount
	for entry := range strings.SplitSeq(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, count, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("%w: HEADCOUNT entry %q has no count", ErrInvalidEnv, entry)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return nil, fmt.Errorf("%w: HEADCOUNT entry %q: %v", ErrInvalidEnv, entry, err)
		}
		plan = append(plan, catalog.Headcount{Department: strings.TrimSpace(name), Agents: n})
	}
	return plan, nil
}
