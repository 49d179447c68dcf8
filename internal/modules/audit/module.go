package audit

import (
	"status_engine/internal/modules/audit/service"
	statussvc "status_engine/internal/modules/status/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("audit",
		fx.Provide(
			service.NewRecorder,
			func(r *service.Recorder) statussvc.AuditSink { return r },
		),
	)
}
