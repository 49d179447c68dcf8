package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"status_engine/internal/models"
	"status_engine/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

// Store is everything the orchestrator needs from persistence.
type Store interface {
	InstanceByID(ctx context.Context, id string) (*models.Instance, error)
	// LatestSnapshot returns (nil, nil) when no snapshot exists yet.
	LatestSnapshot(ctx context.Context, instanceID string) (*models.HealthSnapshot, error)
	BaselineExists(ctx context.Context, strategyVersionID string) (bool, error)
	ChainSeq(ctx context.Context, instanceID string) (int64, error)
	UpdateStrategyStatus(ctx context.Context, instanceID string, status models.StrategyStatus, at time.Time) error
	AppendTransition(ctx context.Context, rec *models.TransitionRecord) error
	RecentTransitions(ctx context.Context, instanceID string, limit int, since time.Time) ([]models.TransitionRecord, error)
}

type AlertSink interface {
	Send(ctx context.Context, a *models.Alert) error
}

type AuditSink interface {
	Record(ctx context.Context, ev *models.AuditEvent) error
}

type ErrorTracker interface {
	Capture(err error, kv map[string]any)
}

// StoreError marks a transient persistence failure; the scheduler may
// retry with backoff.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// Resolution is what one cycle returns to the caller.
type Resolution struct {
	Status     models.StrategyStatus
	Confidence models.StatusConfidence
	Changed    bool
}

// Orchestrator runs one GATHER -> RESOLVE -> COMPARE -> PERSIST+ALERT
// cycle per call. The only component here with side effects; alert and
// audit dispatch run detached from the caller.
type Orchestrator struct {
	store      Store
	resolver   *Resolver
	classifier *Classifier
	detector   *Detector
	alerts     AlertSink
	audit      AuditSink
	errs       ErrorTracker

	silent            map[string]struct{}
	sideEffectTimeout time.Duration

	now func() time.Time
	wg  sync.WaitGroup
}

func NewOrchestrator(
	store Store,
	resolver *Resolver,
	classifier *Classifier,
	detector *Detector,
	alerts AlertSink,
	audit AuditSink,
	errs ErrorTracker,
	silentTransitions []string,
	sideEffectTimeout time.Duration,
) *Orchestrator {
	silent := make(map[string]struct{}, len(silentTransitions))
	for _, s := range silentTransitions {
		silent[s] = struct{}{}
	}
	return &Orchestrator{
		store:             store,
		resolver:          resolver,
		classifier:        classifier,
		detector:          detector,
		alerts:            alerts,
		audit:             audit,
		errs:              errs,
		silent:            silent,
		sideEffectTimeout: sideEffectTimeout,
		now:               time.Now,
	}
}

// ComputeAndCacheStatus resolves one instance and caches the result on
// change. Idempotent given identical underlying data: the COMPARE step
// is the guard against duplicate writes. Callers must not assume alert
// and audit dispatch have completed by the time this returns.
func (o *Orchestrator) ComputeAndCacheStatus(ctx context.Context, instanceID string) (*Resolution, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "status.compute_and_cache")
	defer span.Finish()
	span.SetTag("instance_id", instanceID)

	// GATHER: a failure here aborts the cycle, nothing written.
	inst, err := o.store.InstanceByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, models.ErrInstanceNotFound) {
			return nil, err
		}
		return nil, &StoreError{Op: "instance_by_id", Err: err}
	}

	snap, err := o.store.LatestSnapshot(ctx, instanceID)
	if err != nil {
		return nil, &StoreError{Op: "latest_snapshot", Err: err}
	}

	hasBaseline := false
	if inst.StrategyVersionID != nil {
		hasBaseline, err = o.store.BaselineExists(ctx, *inst.StrategyVersionID)
		if err != nil {
			return nil, &StoreError{Op: "baseline_exists", Err: err}
		}
	}

	seq, err := o.store.ChainSeq(ctx, instanceID)
	if err != nil {
		return nil, &StoreError{Op: "chain_seq", Err: err}
	}

	// RESOLVE: confidence is always computed, it can drift while the
	// status stays put.
	now := o.now()
	newStatus := o.resolver.Resolve(statusInput(inst, snap, hasBaseline, seq, now))
	confidence := o.classifier.Classify(confidenceInput(snap))

	// COMPARE
	if inst.StrategyStatus == newStatus {
		return &Resolution{Status: newStatus, Confidence: confidence, Changed: false}, nil
	}

	// PERSIST
	if err := o.store.UpdateStrategyStatus(ctx, instanceID, newStatus, now); err != nil {
		return nil, &StoreError{Op: "update_strategy_status", Err: err}
	}

	o.wg.Add(1)
	go o.dispatchSideEffects(inst, inst.StrategyStatus, newStatus, confidence, now)

	return &Resolution{Status: newStatus, Confidence: confidence, Changed: true}, nil
}

// Flush waits for in-flight side-effect dispatches. Called on shutdown.
func (o *Orchestrator) Flush() {
	o.wg.Wait()
}

// dispatchSideEffects runs detached from the resolution cycle. Failures
// are captured and swallowed: the persisted status change stands.
func (o *Orchestrator) dispatchSideEffects(
	inst *models.Instance,
	from, to models.StrategyStatus,
	confidence models.StatusConfidence,
	at time.Time,
) {
	defer o.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), o.sideEffectTimeout)
	defer cancel()

	suppress := false
	records, err := o.store.RecentTransitions(ctx, inst.ID, o.detector.MinRecords(), at.Add(-o.detector.Window()))
	if err != nil {
		// no history, no suppression: better a noisy alert than a lost one
		o.errs.Capture(err, map[string]any{"instance_id": inst.ID, "stage": "recent_transitions"})
	} else {
		suppress = o.detector.Suppress(records, at)
	}

	if !o.silentTransition(from, to) && !suppress {
		alert := &models.Alert{
			UserID:     inst.UserID,
			InstanceID: inst.ID,
			EAName:     inst.EAName,
			Type:       "STRATEGY_STATUS_CHANGED",
			Message:    fmt.Sprintf("%s: %s -> %s (confidence %s)", inst.EAName, from, to, confidence),
		}
		if err := o.alerts.Send(ctx, alert); err != nil {
			o.errs.Capture(err, map[string]any{"instance_id": inst.ID, "stage": "alert"})
		}
	}

	// The transition record is unconditional: the audit trail stays
	// complete even when notification noise is silenced.
	rec := &models.TransitionRecord{
		InstanceID: inst.ID,
		From:       from,
		To:         to,
		Confidence: confidence,
		At:         at,
	}
	if err := o.store.AppendTransition(ctx, rec); err != nil {
		o.errs.Capture(err, map[string]any{"instance_id": inst.ID, "stage": "transition_record"})
	}

	ev := &models.AuditEvent{
		UserID:       inst.UserID,
		EventType:    "STRATEGY_STATUS_CHANGED",
		ResourceType: "instance",
		ResourceID:   inst.ID,
		Metadata: map[string]any{
			"from":       string(from),
			"to":         string(to),
			"confidence": string(confidence),
			"suppressed": suppress,
		},
		At: at,
	}
	if err := o.audit.Record(ctx, ev); err != nil {
		o.errs.Capture(err, map[string]any{"instance_id": inst.ID, "stage": "audit"})
	}

	logger.Info("status changed: instance=%s %s -> %s confidence=%s suppressed=%v",
		inst.ID, from, to, confidence, suppress)
}

func (o *Orchestrator) silentTransition(from, to models.StrategyStatus) bool {
	_, ok := o.silent[string(from)+"->"+string(to)]
	return ok
}

func statusInput(
	inst *models.Instance,
	snap *models.HealthSnapshot,
	hasBaseline bool,
	chainSeq int64,
	now time.Time,
) StatusInput {
	in := StatusInput{
		EAStatus:       inst.EAStatus,
		LastHeartbeat:  inst.LastHeartbeat,
		CreatedAt:      inst.CreatedAt,
		DeletedAt:      inst.DeletedAt,
		LifecyclePhase: inst.LifecyclePhase,
		DriftDetected:  false,
		HasBaseline:    hasBaseline,
		ChainVerified:  chainSeq > 0,
		Now:            now,
	}
	if snap != nil {
		health := snap.Health
		in.Health = &health
		in.DriftDetected = snap.DriftDetected
	}
	return in
}

func confidenceInput(snap *models.HealthSnapshot) ConfidenceInput {
	if snap == nil {
		return ConfidenceInput{}
	}
	return ConfidenceInput{
		HasSnapshot:   true,
		TradeCount:    snap.TradesSampled,
		WindowDays:    snap.WindowDays,
		IntervalLower: snap.ConfidenceLower,
		IntervalUpper: snap.ConfidenceUpper,
	}
}
