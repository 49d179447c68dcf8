package service

import (
	"context"

	"status_engine/internal/runner"
	"status_engine/pkg/logger"
)

// InstanceLister enumerates the instances a sweep re-resolves.
type InstanceLister interface {
	LiveInstanceIDs(ctx context.Context) ([]string, error)
}

// Sweeper re-resolves every live instance. The event feed is the fast
// path; the sweep is the catch-all for missed or stale events.
type Sweeper struct {
	store  InstanceLister
	router *runner.Router
}

func NewSweeper(store InstanceLister, router *runner.Router) *Sweeper {
	return &Sweeper{store: store, router: router}
}

func (s *Sweeper) RunOnce(ctx context.Context) error {
	ids, err := s.store.LiveInstanceIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		s.router.Enqueue(ctx, id)
	}
	logger.Info("[SWEEP] enqueued %d instances", len(ids))
	return nil
}
