package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	ServerPort   string
	StoreDriver  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Postgres     PostgresConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	Logging      LoggingConfig
	Console      ConsoleConfig
}

type PostgresConfig struct {
	DSN               string
	Host              string
	Port              int
	User              string
	Password          string
	Database          string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LoggingConfig struct {
	Level        string
	Encoding     string
	Development  bool
	EnableCaller bool
	ServiceName  string
}

// ConsoleConfig configures the operator console and its HTTP gateway.
type ConsoleConfig struct {
	APIBaseURL     string
	SessionBackend string
	SessionKey     string
	HTTPTimeout    time.Duration
}

func LoadConfig() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	pgPort, _ := strconv.Atoi(envOrDefault("POSTGRES_PORT", "5432"))
	maxConns := parseInt32(envOrDefault("POSTGRES_MAX_CONNS", "8"), 8)
	minConns := parseInt32(envOrDefault("POSTGRES_MIN_CONNS", "1"), 1)
	redisDB, _ := strconv.Atoi(envOrDefault("REDIS_DB", "0"))

	logging := LoggingConfig{
		Level:        strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
		Encoding:     strings.ToLower(envOrDefault("LOG_ENCODING", "console")),
		Development:  parseBool(envOrDefault("LOG_DEVELOPMENT", "false"), false),
		EnableCaller: parseBool(envOrDefault("LOG_CALLER", "false"), false),
		ServiceName:  envOrDefault("SERVICE_NAME", "user-console"),
	}

	cfg := &Config{
		ServerPort:   envOrDefault("PORT", "8080"),
		StoreDriver:  strings.ToLower(strings.TrimSpace(envOrDefault("STORE_DRIVER", StoreMemory))),
		ReadTimeout:  parseDuration(envOrDefault("HTTP_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout: parseDuration(envOrDefault("HTTP_WRITE_TIMEOUT", "15s"), 15*time.Second),
		Postgres: PostgresConfig{
			DSN:               os.Getenv("POSTGRES_DSN"),
			Host:              envOrDefault("POSTGRES_HOST", "localhost"),
			Port:              pgPort,
			User:              envOrDefault("POSTGRES_USER", "postgres"),
			Password:          envOrDefault("POSTGRES_PASSWORD", "postgres"),
			Database:          envOrDefault("POSTGRES_DB", "postgres"),
			MaxConns:          maxConns,
			MinConns:          minConns,
			MaxConnLifetime:   parseDuration(envOrDefault("POSTGRES_MAX_CONN_LIFETIME", "1h"), time.Hour),
			MaxConnIdleTime:   parseDuration(envOrDefault("POSTGRES_MAX_CONN_IDLE", "30m"), 30*time.Minute),
			HealthCheckPeriod: parseDuration(envOrDefault("POSTGRES_HEALTH_CHECK_PERIOD", "1m"), time.Minute),
			ConnectTimeout:    parseDuration(envOrDefault("POSTGRES_CONNECT_TIMEOUT", "5s"), 5*time.Second),
		},
		Mongo: MongoConfig{
			URI:            envOrDefault("MONGO_URI", "mongodb://localhost:27017"),
			Database:       envOrDefault("MONGO_DATABASE", "user_console"),
			ConnectTimeout: parseDuration(envOrDefault("MONGO_CONNECT_TIMEOUT", "5s"), 5*time.Second),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logging: logging,
		Console: ConsoleConfig{
			APIBaseURL:     strings.TrimRight(envOrDefault("CONSOLE_API_URL", "http://localhost:8080"), "/"),
			SessionBackend: strings.ToLower(envOrDefault("CONSOLE_SESSION_BACKEND", SessionMemory)),
			SessionKey:     envOrDefault("CONSOLE_SESSION_KEY", "user"),
			HTTPTimeout:    parseDuration(envOrDefault("CONSOLE_HTTP_TIMEOUT", "0s"), 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports settings that cannot produce a working process.
func (c *Config) Validate() error {
	problems := make([]string, 0, 2)

	switch c.StoreDriver {
	case StoreMemory, StorePostgres, StoreMongo:
	default:
		problems = append(problems, fmt.Sprintf("unsupported STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.Console.SessionBackend {
	case SessionMemory:
	case SessionRedis:
		if c.Redis.Addr == "" {
			problems = append(problems, "REDIS_ADDR is required for the redis session backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported CONSOLE_SESSION_BACKEND %q", c.Console.SessionBackend))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}

	return nil
}

func (c PostgresConfig) BuildDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.Database)
}

func loadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			// a missing .env is fine; variables can come from the environment
			return nil
		}
		return err
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt32(value string, fallback int32) int32 {
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return int32(i)
}

func parseBool(value string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return v
}
