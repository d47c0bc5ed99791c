package utils

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("CONSOLE_SESSION_BACKEND", "")
	t.Setenv("CONSOLE_API_URL", "http://example.test:9000/")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.StoreDriver != StoreMemory {
		t.Fatalf("expected memory store driver, got %q", cfg.StoreDriver)
	}
	if cfg.Console.SessionBackend != SessionMemory {
		t.Fatalf("expected memory session backend, got %q", cfg.Console.SessionBackend)
	}
	if cfg.Console.APIBaseURL != "http://example.test:9000" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Console.APIBaseURL)
	}
	if cfg.Console.SessionKey != "user" {
		t.Fatalf("expected session key user, got %q", cfg.Console.SessionKey)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("expected fallback read timeout, got %s", cfg.ReadTimeout)
	}
	if cfg.Console.HTTPTimeout != 0 {
		t.Fatalf("expected no gateway timeout by default, got %s", cfg.Console.HTTPTimeout)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")

	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Fatalf("expected store driver error, got %v", err)
	}
}

func TestValidateRedisSessionNeedsAddr(t *testing.T) {
	cfg := &Config{
		StoreDriver: StoreMemory,
		Console:     ConsoleConfig{SessionBackend: SessionRedis},
	}

	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "REDIS_ADDR") {
		t.Fatalf("expected redis addr error, got %v", err)
	}

	cfg.Redis.Addr = "localhost:6379"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestBuildDSNPrefersExplicitDSN(t *testing.T) {
	cfg := PostgresConfig{User: "u", Password: "p", Host: "h", Port: 5432, Database: "d"}
	if got := cfg.BuildDSN(); got != "postgres://u:p@h:5432/d" {
		t.Fatalf("unexpected dsn %q", got)
	}

	cfg.DSN = "postgres://explicit"
	if got := cfg.BuildDSN(); got != "postgres://explicit" {
		t.Fatalf("expected explicit dsn, got %q", got)
	}
}
