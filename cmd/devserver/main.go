// The devserver binary runs the local HTTP stand-in for the SkillLink
// backend: the seeded demo dataset served over the production wire contract.
// Point the client at it with SKILLLINK_MODE=live and
// SKILLLINK_API_URL=http://localhost:8000.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skilllink/skilllink-client/internal/api"
	"github.com/skilllink/skilllink-client/internal/infrastructure/api/mockapi"
	"github.com/skilllink/skilllink-client/internal/pkg/config"
	"github.com/skilllink/skilllink-client/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	svc := mockapi.New(cfg.JWTSecret, log)
	e := api.NewRouter(svc, cfg.JWTSecret, cfg.Server, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("dev server starting")
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("dev server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("dev server forced to shut down")
	}
	log.Info().Msg("dev server stopped")
}
