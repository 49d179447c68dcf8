package sweeper

import (
	"context"

	"status_engine/internal/modules/config"
	"status_engine/internal/modules/status/service/pg"
	"status_engine/internal/modules/sweeper/service"
	"status_engine/internal/runner"
	"status_engine/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// Module schedules the periodic full sweep.
func Module() fx.Option {
	return fx.Module("sweeper",
		fx.Provide(
			func(store *pg.Store, r *runner.Router) *service.Sweeper {
				return service.NewSweeper(store, r)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, s *service.Sweeper, ctx context.Context) error {
			c := cron.New()
			_, err := c.AddFunc(cfg.SweepSchedule, func() {
				if err := s.RunOnce(ctx); err != nil {
					logger.Error("[SWEEP] failed: %v", err)
				}
			})
			if err != nil {
				return err
			}

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					c.Start()
					return nil
				},
				OnStop: func(_ context.Context) error {
					<-c.Stop().Done()
					return nil
				},
			})
			return nil
		}),
	)
}
