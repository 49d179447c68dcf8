package service

import (
	"go.uber.org/zap"
)

// Tracker is the error-tracking sink for side-effect failures. It only
// reports; resolution outcomes never depend on it.
type Tracker struct {
	log *zap.Logger
}

func NewTracker(log *zap.Logger) *Tracker {
	return &Tracker{log: log.With(zap.String("component", "errtrack"))}
}

func (t *Tracker) Capture(err error, kv map[string]any) {
	fields := make([]zap.Field, 0, len(kv)+1)
	fields = append(fields, zap.Error(err))
	for k, v := range kv {
		fields = append(fields, zap.Any(k, v))
	}
	t.log.Error("side effect failure", fields...)
}
