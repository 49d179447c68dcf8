package models

import "fmt"

// StrategyStatus — resolved lifecycle/health classification of an instance.
type StrategyStatus string

const (
	StatusRetired    StrategyStatus = "RETIRED"
	StatusError      StrategyStatus = "ERROR"
	StatusOffline    StrategyStatus = "OFFLINE"
	StatusUnverified StrategyStatus = "UNVERIFIED"
	StatusTesting    StrategyStatus = "TESTING"
	StatusMonitoring StrategyStatus = "MONITORING"
	StatusDegraded   StrategyStatus = "DEGRADED"
	// StatusConsistent is the terminal healthy state. Earlier revisions
	// of the schema called it VERIFIED; the name lives only here.
	StatusConsistent StrategyStatus = "CONSISTENT"
)

func ParseStrategyStatus(s string) (StrategyStatus, error) {
	switch StrategyStatus(s) {
	case StatusRetired, StatusError, StatusOffline, StatusUnverified,
		StatusTesting, StatusMonitoring, StatusDegraded, StatusConsistent:
		return StrategyStatus(s), nil
	}
	return "", fmt.Errorf("unknown strategy status %q", s)
}

// EAStatus — raw operational state self-reported by the agent.
type EAStatus string

const (
	EAOnline  EAStatus = "ONLINE"
	EAOffline EAStatus = "OFFLINE"
	EAError   EAStatus = "ERROR"
)

func ParseEAStatus(s string) (EAStatus, error) {
	switch EAStatus(s) {
	case EAOnline, EAOffline, EAError:
		return EAStatus(s), nil
	}
	return "", fmt.Errorf("unknown ea status %q", s)
}

// LifecyclePhase — coarse maturity of the instance, set outside the engine.
type LifecyclePhase string

const (
	PhaseNew     LifecyclePhase = "NEW"
	PhaseProving LifecyclePhase = "PROVING"
	PhaseProven  LifecyclePhase = "PROVEN"
	PhaseRetired LifecyclePhase = "RETIRED"
)

func ParseLifecyclePhase(s string) (LifecyclePhase, error) {
	switch LifecyclePhase(s) {
	case PhaseNew, PhaseProving, PhaseProven, PhaseRetired:
		return LifecyclePhase(s), nil
	}
	return "", fmt.Errorf("unknown lifecycle phase %q", s)
}

// HealthState — classification carried by a health snapshot.
type HealthState string

const (
	HealthHealthy          HealthState = "HEALTHY"
	HealthWarning          HealthState = "WARNING"
	HealthDegraded         HealthState = "DEGRADED"
	HealthInsufficientData HealthState = "INSUFFICIENT_DATA"
)

func ParseHealthState(s string) (HealthState, error) {
	switch HealthState(s) {
	case HealthHealthy, HealthWarning, HealthDegraded, HealthInsufficientData:
		return HealthState(s), nil
	}
	return "", fmt.Errorf("unknown health state %q", s)
}

// StatusConfidence — reliability label on a resolved status.
type StatusConfidence string

const (
	ConfidenceLow    StatusConfidence = "LOW"
	ConfidenceMedium StatusConfidence = "MEDIUM"
	ConfidenceHigh   StatusConfidence = "HIGH"
)

func ParseStatusConfidence(s string) (StatusConfidence, error) {
	switch StatusConfidence(s) {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return StatusConfidence(s), nil
	}
	return "", fmt.Errorf("unknown status confidence %q", s)
}
