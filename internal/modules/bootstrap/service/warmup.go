package service

import (
	"context"

	healthsvc "status_engine/internal/modules/health/service"
	sweepsvc "status_engine/internal/modules/sweeper/service"
)

// Warmuper runs the initial full sweep so the cached statuses are fresh
// before the service reports ready.
type Warmuper struct {
	sweeper *sweepsvc.Sweeper
	state   *healthsvc.State
}

func NewWarmuper(sweeper *sweepsvc.Sweeper, state *healthsvc.State) *Warmuper {
	return &Warmuper{sweeper: sweeper, state: state}
}

func (w *Warmuper) Warmup(ctx context.Context) error {
	if err := w.sweeper.RunOnce(ctx); err != nil {
		return err
	}
	w.state.SetReady(true)
	return nil
}
