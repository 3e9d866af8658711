package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"course-store/internal/api"
	"course-store/internal/config"
	"course-store/internal/providers/scalev"
	"course-store/internal/webhook"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	client, err := scalev.New(cfg.ScalevBaseURL, cfg.ScalevAPIKey, cfg.ScalevStoreID, logger)
	if err != nil {
		logger.Fatal("scalev client", zap.Error(err))
	}
	client.DetailWorkers = cfg.DetailWorkers

	// verify the credentials resolve before serving traffic; a failure is
	// loud but not fatal (the platform may just be briefly down)
	verifyStore(client, logger)

	dedup := webhook.NewDedup(cfg.WebhookDedupTTL)
	ingestor := webhook.NewIngestor(cfg.WebhookSecret, dedup, nil, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.NewRouter(client, ingestor, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("http server shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	logger.Info("starting course-store", zap.String("addr", cfg.ListenAddr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}

	<-idleConnsClosed
	logger.Info("server stopped")
}

func verifyStore(client *scalev.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := client.Store(ctx); err != nil {
		logger.Warn("store verification failed", zap.Error(err))
		return
	}
	logger.Info("store verified", zap.String("store_id", client.StoreID))
}
