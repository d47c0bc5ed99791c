package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/user-console/internal/api"
	"github.com/wuwenbin0122/user-console/internal/store"
	"github.com/wuwenbin0122/user-console/internal/users"
	"github.com/wuwenbin0122/user-console/internal/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: failed to load: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("logger: failed to build: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	userStore, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store: failed to open", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	service := users.NewService(userStore, logger.Named("users"))
	router := setupRouter(api.NewHandler(service, users.NewValidator(), logger.Named("api")), logger)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server crashed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}

func setupRouter(handler *api.Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(api.RequestLogger(logger.Named("http")), gin.Recovery())

	handler.RegisterRoutes(router)

	return router
}
