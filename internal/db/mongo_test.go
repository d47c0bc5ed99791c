package db_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wuwenbin0122/user-console/internal/db"
	"github.com/wuwenbin0122/user-console/internal/models"
	"github.com/wuwenbin0122/user-console/internal/store"
	"github.com/wuwenbin0122/user-console/internal/utils"
)

func TestMongoEnsureCollectionsAndCRUD(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping mongo integration test")
	}

	database := "user_console_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	cfg := utils.MongoConfig{
		URI:            uri,
		Database:       database,
		ConnectTimeout: 5 * time.Second,
	}

	mg, err := db.NewMongo(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() {
		ctx := context.Background()
		mg.Database.Drop(ctx)
		mg.Close(ctx)
	}()

	if err := mg.EnsureCollections(context.Background()); err != nil {
		t.Fatalf("ensure collections failed: %v", err)
	}

	ctx := context.Background()
	users := store.NewMongo(mg.Users)

	alice := models.User{ID: uuid.NewString(), Username: "alice", Email: "alice@example.com", Password: "pw", Role: "viewer", Image: "a.png"}
	bob := models.User{ID: uuid.NewString(), Username: "bob", Email: "bob@example.com", Password: "pw", Role: "viewer", Image: "b.png"}
	for _, u := range []models.User{alice, bob} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("failed to insert user: %v", err)
		}
	}

	listed, err := users.List(ctx)
	if err != nil {
		t.Fatalf("failed to list users: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != alice.ID || listed[1].ID != bob.ID {
		t.Fatalf("expected alice then bob, got %+v", listed)
	}

	updated, err := users.UpdateRole(ctx, bob.ID, "admin")
	if err != nil {
		t.Fatalf("failed to update role: %v", err)
	}
	if updated.Role != "admin" || updated.Username != "bob" {
		t.Fatalf("unexpected updated user %+v", updated)
	}

	if err := users.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}
	if err := users.Delete(ctx, alice.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
