package service

import (
	"time"

	"status_engine/internal/models"
	"status_engine/pkg/logger"
)

// Detector decides whether alerting for a fresh transition should be
// suppressed because the instance is bouncing between two statuses.
// Suppression silences the alert only; cache update and audit record
// still happen.
type Detector struct {
	window     time.Duration
	minRecords int
	threshold  int
}

func NewDetector(window time.Duration, minRecords, threshold int) *Detector {
	return &Detector{
		window:     window,
		minRecords: minRecords,
		threshold:  threshold,
	}
}

// Window is the trailing period the store should load records for.
func (d *Detector) Window() time.Duration { return d.window }

// MinRecords is the history size the store should load.
func (d *Detector) MinRecords() int { return d.minRecords }

// Suppress inspects the most recent transitions (the freshly proposed
// pair is not among them). Fewer than minRecords in the window is not
// enough history to call it flapping. Pairs are counted ignoring
// direction: MONITORING->CONSISTENT and CONSISTENT->MONITORING land in
// the same bucket, because flapping is "bouncing between A and B".
func (d *Detector) Suppress(records []models.TransitionRecord, now time.Time) bool {
	cutoff := now.Add(-d.window)

	counts := make(map[string]int)
	recent := 0
	for _, rec := range records {
		if rec.At.Before(cutoff) {
			continue
		}
		recent++
		counts[pairKey(rec.From, rec.To)]++
	}
	if recent < d.minRecords {
		return false
	}

	for pair, n := range counts {
		if n >= d.threshold {
			logger.Warn("flapping detected: pair=%s count=%d window=%s", pair, n, d.window)
			return true
		}
	}
	return false
}

func pairKey(a, b models.StrategyStatus) string {
	if b < a {
		a, b = b, a
	}
	return string(a) + "/" + string(b)
}
