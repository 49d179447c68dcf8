package models

import "time"

// TransitionRecord — one status change, append-only. The flapping
// detector reads a bounded recent window of these.
type TransitionRecord struct {
	ID         int64
	InstanceID string
	From       StrategyStatus
	To         StrategyStatus
	Confidence StatusConfidence
	At         time.Time
}

// Alert — what gets handed to the delivery channel on a status change.
type Alert struct {
	UserID     int64
	InstanceID string
	EAName     string
	Type       string
	Message    string
}

// AuditEvent — one entry for the audit-log sink.
type AuditEvent struct {
	ID           string
	UserID       int64
	EventType    string
	ResourceType string
	ResourceID   string
	Metadata     map[string]any
	At           time.Time
}
