package status

import (
	"context"

	"status_engine/internal/modules/config"
	"status_engine/internal/modules/status/service"
	"status_engine/internal/modules/status/service/pg"

	"go.uber.org/fx"
)

// Module wires the resolution engine: store, resolver, classifier,
// flapping detector and the orchestrator on top of them.
func Module() fx.Option {
	return fx.Module("status",
		fx.Provide(
			pg.NewStore,
			func(s *pg.Store) service.Store { return s },

			func(cfg *config.Config) *service.Resolver {
				return service.NewResolver(cfg.HeartbeatStaleAfter)
			},
			func(cfg *config.Config) *service.Classifier {
				return service.NewClassifier(cfg.IntervalWide, cfg.IntervalNarrow)
			},
			func(cfg *config.Config) *service.Detector {
				return service.NewDetector(cfg.FlapWindow, cfg.FlapMinRecords, cfg.FlapThreshold)
			},

			func(
				cfg *config.Config,
				store service.Store,
				resolver *service.Resolver,
				classifier *service.Classifier,
				detector *service.Detector,
				alerts service.AlertSink,
				audit service.AuditSink,
				errs service.ErrorTracker,
			) *service.Orchestrator {
				return service.NewOrchestrator(
					store, resolver, classifier, detector,
					alerts, audit, errs,
					cfg.SilentTransitions, cfg.SideEffectTimeout,
				)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, o *service.Orchestrator) {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					// let in-flight alert/audit dispatches drain
					o.Flush()
					return nil
				},
			})
		}),
	)
}
