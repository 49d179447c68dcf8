package models

import (
	"errors"
	"time"
)

// ErrInstanceNotFound — terminal, the scheduler must not retry it.
var ErrInstanceNotFound = errors.New("instance not found")

// Instance — one deployed trading agent. Soft-deleted only, never removed.
// StrategyStatus is a cache of the last resolution; it exists to detect
// change, never to override a fresh computation.
type Instance struct {
	ID                string
	UserID            int64 // owner, doubles as the alert chat id
	EAName            string
	EAStatus          EAStatus
	LastHeartbeat     *time.Time
	CreatedAt         time.Time
	DeletedAt         *time.Time
	LifecyclePhase    LifecyclePhase
	StrategyVersionID *string

	StrategyStatus          StrategyStatus
	StrategyStatusUpdatedAt *time.Time
}

// HealthSnapshot — immutable, produced out-of-band, read-only here.
// The engine only ever looks at the most recent one per instance.
type HealthSnapshot struct {
	ID              string
	InstanceID      string
	Health          HealthState
	DriftDetected   bool
	TradesSampled   int
	WindowDays      int
	ConfidenceLower float64
	ConfidenceUpper float64
	// Extra per-metric values carried as-is (jsonb in the store).
	Metrics   map[string]float64
	CreatedAt time.Time
}
