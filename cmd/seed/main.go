package main

import (
	"context"
	"log"

	"github.com/wuwenbin0122/user-console/internal/models"
	"github.com/wuwenbin0122/user-console/internal/store"
	"github.com/wuwenbin0122/user-console/internal/users"
	"github.com/wuwenbin0122/user-console/internal/utils"
)

// seed users for a fresh postgres or mongo store; the memory store forgets
// them as soon as this process exits.
var seedUsers = []models.UserCreate{
	{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "changeme",
		Role:     "admin",
		Image:    "https://i.pravatar.cc/150?u=alice",
	},
	{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "changeme",
		Role:     "viewer",
		Image:    "https://i.pravatar.cc/150?u=bob",
	},
	{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "changeme",
		Role:     "editor",
		Image:    "https://i.pravatar.cc/150?u=carol",
	},
}

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver == utils.StoreMemory {
		log.Printf("STORE_DRIVER is memory; seeded users will not outlive this process")
	}

	logger := utils.MustNewLogger(cfg.Logging)
	defer logger.Sync()

	ctx := context.Background()

	userStore, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	validator := users.NewValidator()
	service := users.NewService(userStore, logger.Named("seed"))

	for _, u := range seedUsers {
		if err := validator.Validate(u); err != nil {
			log.Fatalf("seed user %s: %v", u.Username, err)
		}
		if _, err := service.CreateUser(ctx, u); err != nil {
			log.Fatalf("insert user %s: %v", u.Username, err)
		}
	}

	log.Printf("seeded %d users", len(seedUsers))
}
