package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	NATS      NATSConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogLevel    string
}

// DatabaseConfig points at the hosted store. URL carries host, port,
// database and user; ServiceKey is the credential sent as password.
type DatabaseConfig struct {
	URL        string
	ServiceKey string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
	PoolMinConns   int32

	RunMigrations bool
	MigrationsDir string
}

type NATSConfig struct {
	URL           string
	SubjectPrefix string
	ConnTimeout   time.Duration
}

type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "job-board"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    opt("HTTP_PORT", "8080"),
		LogLevel:    opt("LOG_LEVEL", "info"),
	}

	cfg.Database = DatabaseConfig{
		URL:            req("DATABASE_URL"),
		ServiceKey:     req("DATABASE_SERVICE_KEY"),
		ConnectTimeout: envDuration(opt("DB_CONNECT_TIMEOUT", ""), 5*time.Second),
		PoolMaxConns:   envInt32(opt("DB_POOL_MAX_CONNS", ""), 0),
		PoolMinConns:   envInt32(opt("DB_POOL_MIN_CONNS", ""), 0),
		RunMigrations:  envBool(opt("DB_RUN_MIGRATIONS", ""), false),
		MigrationsDir:  opt("DB_MIGRATIONS_DIR", ""),
	}

	cfg.NATS = NATSConfig{
		URL:           opt("NATS_URL", ""),
		SubjectPrefix: opt("NATS_SUBJECT_PREFIX", "jobs"),
		ConnTimeout:   envDuration(opt("NATS_CONN_TIMEOUT", ""), 10*time.Second),
	}

	cfg.Telemetry = TelemetryConfig{
		OTLPEndpoint: opt("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  opt("OTEL_SERVICE_NAME", cfg.App.AppName),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func envDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envInt32(raw string, def int32) int32 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return def
	}
	return int32(v)
}

func envBool(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
