package feed

import (
	"context"

	"status_engine/internal/modules/config"
	"status_engine/internal/modules/feed/service"

	"go.uber.org/fx"
)

// Module runs the snapshot-ingest stream.
func Module() fx.Option {
	return fx.Module("feed",
		fx.Provide(
			service.NewClient,
			func(cfg *config.Config) chan service.SnapshotEvent {
				// shared buffer between the stream and the runner
				return make(chan service.SnapshotEvent, cfg.QueueSize*64)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, c *service.Client, out chan service.SnapshotEvent, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go c.Start(ctx, out)
					return nil
				},
			})
		}),
	)
}
