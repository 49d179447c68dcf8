package service

import (
	"context"
	"fmt"

	"status_engine/internal/models"
	"status_engine/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Recorder appends audit events to postgres. Failures are the caller's
// problem to report; nothing here retries.
type Recorder struct {
	db *db.PgTxManager
}

func NewRecorder(m *db.PgTxManager) *Recorder {
	return &Recorder{db: m}
}

func (r *Recorder) Record(ctx context.Context, ev *models.AuditEvent) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("audit.Record: %w", err)
		}
	}()

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	meta, err := sonic.Marshal(ev.Metadata)
	if err != nil {
		return err
	}

	return r.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO audit_log (id, user_id, event_type, resource_type, resource_id, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ev.ID, ev.UserID, ev.EventType, ev.ResourceType, ev.ResourceID, meta, ev.At)
		return err
	})
}
