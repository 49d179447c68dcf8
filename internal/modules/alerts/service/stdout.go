package service

import (
	"context"

	"status_engine/internal/models"
	"status_engine/pkg/logger"
)

// Stdout — fallback sink when no telegram token is configured.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Send(_ context.Context, a *models.Alert) error {
	logger.Info("ALERT user=%d instance=%s type=%s: %s", a.UserID, a.InstanceID, a.Type, a.Message)
	return nil
}
