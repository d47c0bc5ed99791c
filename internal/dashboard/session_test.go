package dashboard

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/wuwenbin0122/user-console/internal/db"
	"github.com/wuwenbin0122/user-console/internal/models"
	"github.com/wuwenbin0122/user-console/internal/utils"
)

type brokenStorage struct{ MemorySessionStorage }

func (*brokenStorage) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("storage offline")
}

func TestSessionInitReadsStoredOperatorOnce(t *testing.T) {
	ctx := context.Background()
	storage := NewMemorySessionStorage()
	_ = storage.Save(ctx, "user", []byte(`{"id":"op-1","username":"root","role":"admin"}`))

	session := NewSession(storage, "user")
	if err := session.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	user, ok := session.User()
	if !ok || user.ID != "op-1" || user.Username != "root" {
		t.Fatalf("unexpected operator %+v %v", user, ok)
	}

	_ = storage.Save(ctx, "user", []byte(`{"id":"op-2"}`))
	if err := session.Init(ctx); err != nil {
		t.Fatalf("second init: %v", err)
	}
	if user, _ := session.User(); user.ID != "op-1" {
		t.Fatalf("expected init to read once, got %s", user.ID)
	}
}

func TestSessionAnonymousAndErrors(t *testing.T) {
	ctx := context.Background()

	session := NewSession(NewMemorySessionStorage(), "user")
	if err := session.Remember(ctx, models.User{ID: "x"}); !errors.Is(err, ErrSessionNotInitialised) {
		t.Fatalf("expected ErrSessionNotInitialised, got %v", err)
	}
	if err := session.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, ok := session.User(); ok {
		t.Fatalf("expected anonymous session")
	}

	if err := NewSession(&brokenStorage{}, "user").Init(ctx); err == nil {
		t.Fatalf("expected storage error")
	}

	bad := NewMemorySessionStorage()
	_ = bad.Save(ctx, "user", []byte("{"))
	if err := NewSession(bad, "user").Init(ctx); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSessionRememberDropsPassword(t *testing.T) {
	ctx := context.Background()
	storage := NewMemorySessionStorage()
	session := NewSession(storage, "user")
	_ = session.Init(ctx)

	if err := session.Remember(ctx, models.User{ID: "op", Username: "root", Password: "secret"}); err != nil {
		t.Fatalf("remember: %v", err)
	}

	raw, ok, _ := storage.Load(ctx, "user")
	if !ok || strings.Contains(string(raw), "secret") {
		t.Fatalf("expected stored operator without password, got %s", raw)
	}
}

func TestRedisSessionStorage(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis integration test")
	}

	ctx := context.Background()
	client, err := db.NewRedis(ctx, utils.RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	defer client.Close()

	storage := NewRedisSessionStorage(client, "user-console-test:"+uuid.NewString())
	defer storage.Clear(ctx)

	if _, ok, err := storage.Load(ctx, "user"); err != nil || ok {
		t.Fatalf("expected empty storage, got ok=%v err=%v", ok, err)
	}

	session := NewSession(storage, "user")
	if err := session.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := session.Remember(ctx, models.User{ID: "op", Username: "root"}); err != nil {
		t.Fatalf("remember: %v", err)
	}

	reloaded := NewSession(storage, "user")
	if err := reloaded.Init(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if user, ok := reloaded.User(); !ok || user.Username != "root" {
		t.Fatalf("expected persisted operator, got %+v %v", user, ok)
	}

	if err := reloaded.Teardown(ctx); err != nil {
		t.Fatalf("teardown: %v", err)
	}
	if _, ok, _ := storage.Load(ctx, "user"); ok {
		t.Fatalf("expected storage cleared")
	}
}
