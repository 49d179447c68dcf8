package service

import (
	"os"
	"testing"
	"time"

	"status_engine/internal/models"
	"status_engine/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func healthyInput() StatusInput {
	hb := testNow.Add(-30 * time.Second)
	health := models.HealthHealthy
	return StatusInput{
		EAStatus:       models.EAOnline,
		LastHeartbeat:  &hb,
		CreatedAt:      testNow.Add(-90 * 24 * time.Hour),
		LifecyclePhase: models.PhaseProven,
		Health:         &health,
		DriftDetected:  false,
		HasBaseline:    true,
		ChainVerified:  true,
		Now:            testNow,
	}
}

func TestResolvePrecedenceChain(t *testing.T) {
	r := NewResolver(5 * time.Minute)

	deleted := testNow.Add(-time.Hour)
	staleHB := testNow.Add(-10 * time.Minute)
	degraded := models.HealthDegraded
	warning := models.HealthWarning
	insufficient := models.HealthInsufficientData

	tests := []struct {
		name   string
		mutate func(*StatusInput)
		want   models.StrategyStatus
	}{
		{
			name:   "all healthy",
			mutate: func(in *StatusInput) {},
			want:   models.StatusConsistent,
		},
		{
			name:   "soft deleted wins over everything",
			mutate: func(in *StatusInput) { in.DeletedAt = &deleted; in.EAStatus = models.EAError },
			want:   models.StatusRetired,
		},
		{
			name:   "ea error",
			mutate: func(in *StatusInput) { in.EAStatus = models.EAError },
			want:   models.StatusError,
		},
		{
			name:   "ea offline",
			mutate: func(in *StatusInput) { in.EAStatus = models.EAOffline },
			want:   models.StatusOffline,
		},
		{
			name:   "stale heartbeat",
			mutate: func(in *StatusInput) { in.LastHeartbeat = &staleHB },
			want:   models.StatusOffline,
		},
		{
			name:   "missing heartbeat",
			mutate: func(in *StatusInput) { in.LastHeartbeat = nil },
			want:   models.StatusOffline,
		},
		{
			name:   "chain not verified",
			mutate: func(in *StatusInput) { in.ChainVerified = false },
			want:   models.StatusUnverified,
		},
		{
			name:   "degraded overrides proven lifecycle",
			mutate: func(in *StatusInput) { in.Health = &degraded },
			want:   models.StatusDegraded,
		},
		{
			name:   "new phase still testing",
			mutate: func(in *StatusInput) { in.LifecyclePhase = models.PhaseNew },
			want:   models.StatusTesting,
		},
		{
			name:   "proving phase still testing",
			mutate: func(in *StatusInput) { in.LifecyclePhase = models.PhaseProving },
			want:   models.StatusTesting,
		},
		{
			name:   "no baseline",
			mutate: func(in *StatusInput) { in.HasBaseline = false },
			want:   models.StatusTesting,
		},
		{
			name:   "no snapshot yet",
			mutate: func(in *StatusInput) { in.Health = nil },
			want:   models.StatusTesting,
		},
		{
			name:   "insufficient data",
			mutate: func(in *StatusInput) { in.Health = &insufficient },
			want:   models.StatusTesting,
		},
		{
			name:   "warning",
			mutate: func(in *StatusInput) { in.Health = &warning },
			want:   models.StatusMonitoring,
		},
		{
			name:   "drift detected",
			mutate: func(in *StatusInput) { in.DriftDetected = true },
			want:   models.StatusMonitoring,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := healthyInput()
			tt.mutate(&in)
			assert.Equal(t, tt.want, r.Resolve(in))
		})
	}
}

// ERROR must dominate every combination of health/lifecycle fields.
func TestResolveErrorDominates(t *testing.T) {
	r := NewResolver(5 * time.Minute)

	for _, health := range []models.HealthState{
		models.HealthHealthy, models.HealthWarning, models.HealthDegraded, models.HealthInsufficientData,
	} {
		for _, phase := range []models.LifecyclePhase{
			models.PhaseNew, models.PhaseProving, models.PhaseProven, models.PhaseRetired,
		} {
			in := healthyInput()
			in.EAStatus = models.EAError
			h := health
			in.Health = &h
			in.LifecyclePhase = phase
			assert.Equal(t, models.StatusError, r.Resolve(in),
				"health=%s phase=%s", health, phase)
		}
	}
}

func TestResolveUnverifiedIgnoresHealth(t *testing.T) {
	r := NewResolver(5 * time.Minute)

	for _, health := range []models.HealthState{
		models.HealthHealthy, models.HealthWarning, models.HealthDegraded,
	} {
		in := healthyInput()
		in.ChainVerified = false
		h := health
		in.Health = &h
		assert.Equal(t, models.StatusUnverified, r.Resolve(in), "health=%s", health)
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := NewResolver(5 * time.Minute)
	in := healthyInput()
	first := r.Resolve(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Resolve(in))
	}
}

// The worked example: healthy proven instance, then drift, then degraded.
func TestResolveWorkedExample(t *testing.T) {
	r := NewResolver(5 * time.Minute)

	in := healthyInput()
	assert.Equal(t, models.StatusConsistent, r.Resolve(in))

	in.DriftDetected = true
	assert.Equal(t, models.StatusMonitoring, r.Resolve(in))

	degraded := models.HealthDegraded
	in.Health = &degraded
	assert.Equal(t, models.StatusDegraded, r.Resolve(in))
}

func TestResolveZeroValueInputIsConservative(t *testing.T) {
	r := NewResolver(5 * time.Minute)
	assert.Equal(t, models.StatusOffline, r.Resolve(StatusInput{}))
}
