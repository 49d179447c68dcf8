package main

import (
	"context"
	"log"

	"status_engine/internal/modules/alerts"
	"status_engine/internal/modules/audit"
	"status_engine/internal/modules/bootstrap"
	"status_engine/internal/modules/config"
	"status_engine/internal/modules/errtrack"
	"status_engine/internal/modules/feed"
	"status_engine/internal/modules/health"
	"status_engine/internal/modules/postgres"
	"status_engine/internal/modules/status"
	"status_engine/internal/modules/sweeper"
	"status_engine/internal/runner"
	"status_engine/pkg/logger"
	"status_engine/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName("status-engine")
	tracing.SetServiceName("status-engine")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		errtrack.Module(),
		alerts.Module(),
		audit.Module(),
		status.Module(),
		runner.Module(),
		feed.Module(),
		sweeper.Module(),
		bootstrap.Module(),
		health.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if cfg.Jaeger.Host == "" {
				return nil
			}
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					closeTracer()
					return nil
				},
			})
			return nil
		}),
	)
	app.Run()
}
