package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"moviecatalog/internal/util"
	"moviecatalog/pkg/events"
	"moviecatalog/services/catalog/internal/app"
	"moviecatalog/services/catalog/internal/config"
	"moviecatalog/services/catalog/internal/server"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := util.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.EventsStream != "" {
		publisher, err = events.NewRedisPublisher(redisClient, events.RedisPublisherConfig{
			Stream: cfg.EventsStream,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init event publisher")
		}
	}

	appCore, err := app.New(app.Config{
		Publisher: publisher,
		SeedPath:  cfg.SeedPath,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init app")
	}

	httpServer, err := server.New(server.Config{
		App:                appCore,
		AllowedOrigins:     cfg.AllowedOrigins,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Redis:              redisClient,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init server")
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", addr).
			Int("movies", appCore.Count()).
			Bool("events", cfg.EventsStream != "").
			Int("rateLimitPerMinute", cfg.RateLimitPerMinute).
			Msg("catalog server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down catalog server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
