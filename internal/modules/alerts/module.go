package alerts

import (
	"context"

	"status_engine/internal/modules/alerts/service"
	"status_engine/internal/modules/config"
	statussvc "status_engine/internal/modules/status/service"
	"status_engine/internal/modules/status/service/pg"
	"status_engine/pkg/logger"

	"go.uber.org/fx"
)

// Module provides the alert sink: telegram when a token is configured,
// stdout otherwise.
func Module() fx.Option {
	return fx.Module("alerts",
		fx.Provide(
			func(cfg *config.Config, store *pg.Store) statussvc.AlertSink {
				if cfg.Telegram.Token != "" {
					tg, err := service.NewTelegram(cfg, store)
					if err == nil {
						return tg
					}
					logger.Error("telegram init failed, falling back to stdout: %v", err)
				}
				return service.NewStdout()
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, sink statussvc.AlertSink, ctx context.Context) {
			tg, ok := sink.(*service.Telegram)
			if !ok {
				return
			}
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					tg.Start(ctx)
					return nil
				},
				OnStop: func(_ context.Context) error {
					tg.Stop()
					return nil
				},
			})
		}),
	)
}
