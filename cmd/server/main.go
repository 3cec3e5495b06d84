package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Scurrlin/stocks-app/internal/api"
	"github.com/Scurrlin/stocks-app/internal/auth"
	"github.com/Scurrlin/stocks-app/internal/config"
	"github.com/Scurrlin/stocks-app/internal/database"
	appkafka "github.com/Scurrlin/stocks-app/internal/kafka"
	"github.com/Scurrlin/stocks-app/internal/marketdata"
	"github.com/Scurrlin/stocks-app/internal/watchlist"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	pingCancel()
	defer redisClient.Close()

	sessions := auth.NewRedisSessionStore(redisClient)
	provider := auth.NewProvider(db, sessions, cfg.Auth.SessionTTL)

	market := marketdata.New(marketdata.Config{
		BaseURL:           cfg.Finnhub.BaseURL,
		APIKey:            cfg.Finnhub.APIKey,
		RequestsPerSecond: cfg.Finnhub.RequestsPerSecond,
		Timeout:           cfg.Finnhub.Timeout,
	})
	if !market.Enabled() {
		logger.Warn("finnhub api key not configured, live market data disabled")
	}

	enricher := watchlist.NewEnricher(db, db, market, logger)

	var producer *appkafka.Producer
	if cfg.Kafka.Enabled {
		producer = appkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
	}

	handler := api.NewHandler(db, enricher, market, provider, producer, logger, api.Options{
		SessionTTL:    cfg.Auth.SessionTTL,
		GuestTTL:      cfg.Auth.GuestTTL,
		SecureCookies: cfg.Auth.SecureCookies,
	})
	router := api.SetupRoutes(handler)

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
