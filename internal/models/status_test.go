package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStrategyStatus(t *testing.T) {
	for _, s := range []string{
		"RETIRED", "ERROR", "OFFLINE", "UNVERIFIED",
		"TESTING", "MONITORING", "DEGRADED", "CONSISTENT",
	} {
		got, err := ParseStrategyStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, StrategyStatus(s), got)
	}

	for _, s := range []string{"", "consistent", "VERIFIED", "HEALTHY"} {
		_, err := ParseStrategyStatus(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestParseEAStatus(t *testing.T) {
	_, err := ParseEAStatus("ONLINE")
	assert.NoError(t, err)
	// values arrive from the wire, nothing is coerced silently
	_, err = ParseEAStatus("online")
	assert.Error(t, err)
	_, err = ParseEAStatus("RUNNING")
	assert.Error(t, err)
}

func TestParseLifecyclePhase(t *testing.T) {
	for _, s := range []string{"NEW", "PROVING", "PROVEN", "RETIRED"} {
		_, err := ParseLifecyclePhase(s)
		assert.NoError(t, err)
	}
	_, err := ParseLifecyclePhase("LIVE")
	assert.Error(t, err)
}

func TestParseHealthState(t *testing.T) {
	for _, s := range []string{"HEALTHY", "WARNING", "DEGRADED", "INSUFFICIENT_DATA"} {
		_, err := ParseHealthState(s)
		assert.NoError(t, err)
	}
	_, err := ParseHealthState("OK")
	assert.Error(t, err)
}
