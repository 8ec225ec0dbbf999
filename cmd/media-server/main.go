package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gotube/internal/config"
	"gotube/internal/dbmongo"
	"gotube/internal/logging"
	"gotube/internal/media"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.MustNewLogger(cfg.Logging.Format, cfg.Logging.Level)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("media server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	mongoClient, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Close(context.Background()) }()

	storage := dbmongo.NewMediaStorage(mongoClient, cfg.Storage.MediaBaseURL)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MediaServerPort),
		Handler:           media.NewHTTPServer(storage, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("media server starting",
		zap.String("addr", server.Addr),
		zap.String("base_url", cfg.Storage.MediaBaseURL),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
