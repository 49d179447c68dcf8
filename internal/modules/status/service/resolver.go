package service

import (
	"time"

	"status_engine/internal/models"
)

// StatusInput is the fully validated fact set for one resolution pass.
// It is built at the store boundary; the resolver never sees a raw wire
// value.
type StatusInput struct {
	EAStatus       models.EAStatus
	LastHeartbeat  *time.Time
	CreatedAt      time.Time
	DeletedAt      *time.Time
	LifecyclePhase models.LifecyclePhase
	Health         *models.HealthState // nil until the first snapshot exists
	DriftDetected  bool
	HasBaseline    bool
	ChainVerified  bool
	Now            time.Time
}

// Resolver classifies one instance from a StatusInput. Pure, no I/O,
// total over all inputs.
type Resolver struct {
	staleAfter time.Duration
}

func NewResolver(staleAfter time.Duration) *Resolver {
	return &Resolver{staleAfter: staleAfter}
}

// Resolve walks the precedence chain top to bottom, first match wins.
// Operational and data-integrity failures dominate performance
// classification: a crashed agent is never reported as healthy.
func (r *Resolver) Resolve(in StatusInput) models.StrategyStatus {
	if in.DeletedAt != nil {
		return models.StatusRetired
	}
	if in.EAStatus == models.EAError {
		return models.StatusError
	}
	if in.EAStatus != models.EAOnline || in.LastHeartbeat == nil ||
		in.Now.Sub(*in.LastHeartbeat) > r.staleAfter {
		return models.StatusOffline
	}
	if !in.ChainVerified {
		// no recorded trade history yet, nothing else can be assessed
		return models.StatusUnverified
	}
	if in.Health != nil && *in.Health == models.HealthDegraded {
		// overrides lifecycle: a degraded strategy is never called
		// healthy regardless of phase
		return models.StatusDegraded
	}
	if in.LifecyclePhase == models.PhaseNew || in.LifecyclePhase == models.PhaseProving ||
		!in.HasBaseline ||
		in.Health == nil || *in.Health == models.HealthInsufficientData {
		return models.StatusTesting
	}
	if *in.Health == models.HealthWarning || in.DriftDetected {
		return models.StatusMonitoring
	}
	return models.StatusConsistent
}
