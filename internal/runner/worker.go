package runner

import (
	"context"
	"errors"
	"time"

	"status_engine/internal/models"
	statussvc "status_engine/internal/modules/status/service"
	"status_engine/pkg/logger"
)

// worker drains the queue for a single instance. One in flight at a
// time; that is the whole point.
type worker struct {
	instanceID string
	queue      chan struct{}
}

func newWorker(instanceID string, queueSize int) *worker {
	return &worker{
		instanceID: instanceID,
		queue:      make(chan struct{}, queueSize),
	}
}

func (w *worker) run(ctx context.Context, orc Orchestrator, timeout time.Duration, onResolve func(*statussvc.Resolution), evict func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.queue:
			rctx, cancel := context.WithTimeout(ctx, timeout)
			res, err := orc.ComputeAndCacheStatus(rctx, w.instanceID)
			cancel()
			if err != nil {
				switch {
				case errors.Is(err, models.ErrInstanceNotFound):
					// terminal, retire the worker with the instance
					logger.Info("[RUNNER] %s gone: %v", w.instanceID, err)
					evict()
					return
				default:
					// retryable: the next sweep or event picks it up
					logger.Error("[RUNNER] resolve %s failed: %v", w.instanceID, err)
				}
				continue
			}
			if onResolve != nil {
				onResolve(res)
			}
		}
	}
}
