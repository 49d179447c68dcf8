package runner

import (
	"context"
	"time"

	"status_engine/internal/modules/config"
	feedsvc "status_engine/internal/modules/feed/service"
	healthsvc "status_engine/internal/modules/health/service"
	statussvc "status_engine/internal/modules/status/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(cfg *config.Config, orc *statussvc.Orchestrator, state *healthsvc.State) *Router {
				return NewRouter(orc, cfg.QueueSize, cfg.ResolveTimeout, func(res *statussvc.Resolution) {
					state.TouchResolve(time.Now())
				})
			},
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			r *Router,
			events chan feedsvc.SnapshotEvent,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						for {
							select {
							case <-ctx.Done():
								return
							case ev := <-events:
								r.Enqueue(ctx, ev.InstanceID)
							}
						}
					}()
					return nil
				},
			})
		}),
	)
}
