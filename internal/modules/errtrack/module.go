package errtrack

import (
	"status_engine/internal/modules/errtrack/service"
	statussvc "status_engine/internal/modules/status/service"
	"status_engine/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module("errtrack",
		fx.Provide(
			func() *zap.Logger { return logger.InfoLogger },
			service.NewTracker,
			func(t *service.Tracker) statussvc.ErrorTracker { return t },
		),
	)
}
