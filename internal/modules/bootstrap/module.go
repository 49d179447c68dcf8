package bootstrap

import (
	"context"

	bootstrap "status_engine/internal/modules/bootstrap/service"
	"status_engine/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			bootstrap.NewWarmuper,
		),
		fx.Invoke(func(lc fx.Lifecycle, wu *bootstrap.Warmuper, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						if err := wu.Warmup(ctx); err != nil {
							logger.Error("[BOOT] warmup error: %v", err)
							return
						}
						logger.Info("[BOOT] warmup done")
					}()
					return nil
				},
			})
		}),
	)
}
