package workers

import (
	"context"
	"log"
)

// EntitlementPruner is the slice of the entitlement service the worker
// needs: prune one user's history, report whether anything changed.
type EntitlementPruner interface {
	PruneHistory(ctx context.Context, userID string) (bool, error)
}

type PruneJob struct {
	UserID string
}

// RetentionWorker trims aged history out of entitlement records in the
// background. Jobs arrive whenever a new active day is recorded; losing one
// is harmless, the next active day enqueues again.
type RetentionWorker struct {
	pruner EntitlementPruner
	jobs   chan PruneJob
}

func NewRetentionWorker(pruner EntitlementPruner) *RetentionWorker {
	return &RetentionWorker{
		pruner: pruner,
		jobs:   make(chan PruneJob, 100),
	}
}

func (w *RetentionWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Retention Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Retention Worker shutting down...")
				return
			}
		}
	}()
}

func (w *RetentionWorker) Enqueue(userID string) {
	select {
	case w.jobs <- PruneJob{UserID: userID}:
	default:
		log.Printf("Retention Worker queue full! Dropping job for user %s", userID)
	}
}

func (w *RetentionWorker) processJob(ctx context.Context, job PruneJob) {
	changed, err := w.pruner.PruneHistory(ctx, job.UserID)
	if err != nil {
		log.Printf("Worker Error pruning history for %s: %v", job.UserID, err)
		return
	}
	if changed {
		log.Printf("Pruned aged engagement history for user %s", job.UserID)
	}
}
