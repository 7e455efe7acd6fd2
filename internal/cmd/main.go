package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	config, err := loadConfig(getEnv("CONFIG_FILE", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	services, cleanup, err := setupServices(ctx, config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to wire services")
	}
	defer cleanup()

	go services.Connections.Start(ctx)
	go func() {
		if err := services.Orchestrator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("orchestrator stopped")
		}
	}()
	if services.OutboxWorker != nil {
		if err := services.OutboxWorker.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start outbox worker")
		}
		defer services.OutboxWorker.Stop()
	}
	if services.OutboxListener != nil {
		go func() {
			if err := services.OutboxListener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("outbox listener stopped")
			}
		}()
	}

	server := setupServer(config, services)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
