package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/config"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/database"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/handlers"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/jobs"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/log"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/repository"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	db, err := database.NewSQLite(ctx, cfg.Stub.DatabasePath, repository.Schema)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open sqlite")
	}

	if err := repository.NewWorkflowRepository(db).SeedDemo(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed workflows")
	}

	handlerSet := handlers.NewHandlerSet(logger, db, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(time.Minute, logger)
	if err := scheduler.Add(cfg.Stub.PurgeSchedule, "session-purge", handlerSet.AuthService().PurgeExpiredSessions); err != nil {
		logger.Error().Err(err).Msg("scheduler setup failed")
	}
	scheduler.Start()

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, db)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *sqlx.DB) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("scheduled job still running at exit")
	}

	if err := db.Close(); err != nil {
		logger.Error().Err(err).Msg("sqlite close error")
	}

	logger.Info().Msg("server exited cleanly")
}
