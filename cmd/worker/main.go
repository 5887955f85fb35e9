// Worker procesa una vez los comandos pendientes en <DATA_DIR>/inbox.
//
// Uso:
//
//	go run ./cmd/worker
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AchrafRT/sales-crm/internal/bootstrap"
	"github.com/AchrafRT/sales-crm/pkg/config"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar runtime")
	}
	defer rt.Close()

	if err := rt.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("datos iniciales")
	}

	n, err := rt.Queue.Drain(ctx)
	if err != nil {
		log.Error().Err(err).Int("processed", n).Msg("drenar inbox")
		os.Exit(1)
	}
	log.Info().Int("processed", n).Msg("inbox procesado")
}
