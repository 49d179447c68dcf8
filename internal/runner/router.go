package runner

import (
	"context"
	"sync"
	"time"

	statussvc "status_engine/internal/modules/status/service"
	"status_engine/pkg/logger"
)

// Orchestrator is the one entry point the runner drives.
type Orchestrator interface {
	ComputeAndCacheStatus(ctx context.Context, instanceID string) (*statussvc.Resolution, error)
}

// Router owns one worker per instance id so overlapping triggers for
// the same instance are serialized while different instances resolve
// concurrently. There is no cross-instance shared state to lock.
type Router struct {
	mu      sync.Mutex
	workers map[string]*worker

	orc            Orchestrator
	queueSize      int
	resolveTimeout time.Duration
	onResolve      func(*statussvc.Resolution)
}

func NewRouter(orc Orchestrator, queueSize int, resolveTimeout time.Duration, onResolve func(*statussvc.Resolution)) *Router {
	if queueSize <= 0 {
		queueSize = 16
	}
	if resolveTimeout <= 0 {
		resolveTimeout = 15 * time.Second
	}
	return &Router{
		workers:        make(map[string]*worker),
		orc:            orc,
		queueSize:      queueSize,
		resolveTimeout: resolveTimeout,
		onResolve:      onResolve,
	}
}

// Enqueue schedules one resolution cycle for the instance. Non-blocking:
// a full per-instance queue drops the request, re-resolution is
// deterministic so a dropped duplicate costs nothing.
func (r *Router) Enqueue(ctx context.Context, instanceID string) {
	r.mu.Lock()
	w, ok := r.workers[instanceID]
	if !ok {
		w = newWorker(instanceID, r.queueSize)
		r.workers[instanceID] = w
		go w.run(ctx, r.orc, r.resolveTimeout, r.onResolve, func() { r.remove(instanceID) })
	}
	r.mu.Unlock()

	select {
	case w.queue <- struct{}{}:
	default:
		logger.Info("[RUNNER] queue full, dropping resolve for %s", instanceID)
	}
}

func (r *Router) remove(instanceID string) {
	r.mu.Lock()
	delete(r.workers, instanceID)
	r.mu.Unlock()
}
