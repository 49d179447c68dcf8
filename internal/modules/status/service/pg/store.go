package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"status_engine/internal/models"
	"status_engine/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

// Store implements the orchestrator's persistence contract on postgres.
type Store struct {
	db *db.PgTxManager
}

func NewStore(m *db.PgTxManager) *Store {
	return &Store{db: m}
}

const instanceColumns = `id, user_id, ea_name, ea_status, last_heartbeat, created_at, deleted_at,
	lifecycle_phase, strategy_version_id, strategy_status, strategy_status_updated_at`

func (s *Store) InstanceByID(ctx context.Context, id string) (inst *models.Instance, err error) {
	defer func() {
		if err != nil && !errors.Is(err, models.ErrInstanceNotFound) {
			err = fmt.Errorf("pg.InstanceByID: %w", err)
		}
	}()

	row := s.db.Conn().QueryRow(ctx,
		`SELECT `+instanceColumns+` FROM instances WHERE id = $1`, id)
	return scanInstance(row)
}

func scanInstance(row pgx.Row) (*models.Instance, error) {
	var (
		inst                      models.Instance
		eaStatus, phase, stStatus string
	)
	err := row.Scan(
		&inst.ID, &inst.UserID, &inst.EAName, &eaStatus, &inst.LastHeartbeat,
		&inst.CreatedAt, &inst.DeletedAt, &phase, &inst.StrategyVersionID,
		&stStatus, &inst.StrategyStatusUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrInstanceNotFound
		}
		return nil, err
	}

	// Validate wire values once, here. Downstream only sees closed types.
	if inst.EAStatus, err = models.ParseEAStatus(eaStatus); err != nil {
		return nil, err
	}
	if inst.LifecyclePhase, err = models.ParseLifecyclePhase(phase); err != nil {
		return nil, err
	}
	if inst.StrategyStatus, err = models.ParseStrategyStatus(stStatus); err != nil {
		return nil, err
	}
	return &inst, nil
}

func (s *Store) LatestSnapshot(ctx context.Context, instanceID string) (snap *models.HealthSnapshot, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.LatestSnapshot: %w", err)
		}
	}()

	row := s.db.Conn().QueryRow(ctx,
		`SELECT id, instance_id, health_status, drift_detected, trades_sampled, window_days,
			confidence_lower, confidence_upper, metrics, created_at
		FROM health_snapshots
		WHERE instance_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, instanceID)

	var (
		out     models.HealthSnapshot
		health  string
		metrics []byte
	)
	err = row.Scan(
		&out.ID, &out.InstanceID, &health, &out.DriftDetected, &out.TradesSampled,
		&out.WindowDays, &out.ConfidenceLower, &out.ConfidenceUpper, &metrics, &out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// no snapshot yet is not an error, the resolver handles it
			return nil, nil
		}
		return nil, err
	}

	if out.Health, err = models.ParseHealthState(health); err != nil {
		return nil, err
	}
	if len(metrics) > 0 {
		if err = sonic.Unmarshal(metrics, &out.Metrics); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func (s *Store) BaselineExists(ctx context.Context, strategyVersionID string) (ok bool, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.BaselineExists: %w", err)
		}
	}()

	row := s.db.Conn().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM baselines WHERE strategy_version_id = $1)`,
		strategyVersionID)
	err = row.Scan(&ok)
	return ok, err
}

func (s *Store) ChainSeq(ctx context.Context, instanceID string) (seq int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.ChainSeq: %w", err)
		}
	}()

	row := s.db.Conn().QueryRow(ctx,
		`SELECT last_seq_no FROM chain_state WHERE instance_id = $1`, instanceID)
	err = row.Scan(&seq)
	if errors.Is(err, pgx.ErrNoRows) {
		// no chain row means no verified trade event yet
		return 0, nil
	}
	return seq, err
}

func (s *Store) UpdateStrategyStatus(
	ctx context.Context,
	instanceID string,
	status models.StrategyStatus,
	at time.Time,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.UpdateStrategyStatus: %w", err)
		}
	}()

	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`UPDATE instances
			SET strategy_status = $2, strategy_status_updated_at = $3
			WHERE id = $1`, instanceID, string(status), at)
		return err
	})
}

func (s *Store) AppendTransition(ctx context.Context, rec *models.TransitionRecord) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.AppendTransition: %w", err)
		}
	}()

	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO strategy_transitions (instance_id, from_status, to_status, confidence, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			rec.InstanceID, string(rec.From), string(rec.To), string(rec.Confidence), rec.At)
		return err
	})
}

func (s *Store) RecentTransitions(
	ctx context.Context,
	instanceID string,
	limit int,
	since time.Time,
) (out []models.TransitionRecord, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.RecentTransitions: %w", err)
		}
	}()

	rows, err := s.db.Conn().Query(ctx,
		`SELECT id, instance_id, from_status, to_status, confidence, created_at
		FROM strategy_transitions
		WHERE instance_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3`, instanceID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec            models.TransitionRecord
			from, to, conf string
		)
		if err = rows.Scan(&rec.ID, &rec.InstanceID, &from, &to, &conf, &rec.At); err != nil {
			return nil, err
		}
		if rec.From, err = models.ParseStrategyStatus(from); err != nil {
			return nil, err
		}
		if rec.To, err = models.ParseStrategyStatus(to); err != nil {
			return nil, err
		}
		if rec.Confidence, err = models.ParseStatusConfidence(conf); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LiveInstanceIDs feeds the periodic sweep: everything not soft-deleted.
func (s *Store) LiveInstanceIDs(ctx context.Context) (ids []string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.LiveInstanceIDs: %w", err)
		}
	}()

	rows, err := s.db.Conn().Query(ctx,
		`SELECT id FROM instances WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
