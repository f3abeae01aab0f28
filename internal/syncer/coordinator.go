// Package syncer coordinates a batch of independent fetches into one
// logical page refresh with aggregate loading semantics.
package syncer

import (
	"context"
	"sync"

	"github.com/velvetrock/gitscout/internal/logging"
	"github.com/velvetrock/gitscout/internal/notify"
)

// Task is one independent asynchronous fetch in a refresh batch.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Result is the settled outcome of one task.
type Result struct {
	Name string
	Err  error
}

// Coordinator fans a batch of tasks out concurrently and joins on all of
// them settling, fulfilled or rejected. The aggregate loading flag clears
// exactly once per batch no matter how many tasks failed; there is no
// aggregate error state, partial failure is a valid resting state.
type Coordinator struct {
	notifier notify.Notifier

	mu      sync.Mutex
	loading bool
}

// NewCoordinator creates a coordinator.
func NewCoordinator(notifier notify.Notifier) *Coordinator {
	return &Coordinator{notifier: notifier}
}

// IsLoading reports whether a batch is in flight.
func (c *Coordinator) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LoadAll runs every task concurrently and waits for all of them to
// settle. A failed task never aborts its siblings; its error is logged,
// returned in the results, and the batch still completes with a single
// "synced" notification.
func (c *Coordinator) LoadAll(ctx context.Context, tasks ...Task) []Result {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	results := make([]Result, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			err := task.Run(ctx)
			results[i] = Result{Name: task.Name, Err: err}
			if err != nil {
				logging.Error("sync task failed", "task", task.Name, "error", err)
			}
		}(i, task)
	}
	wg.Wait()

	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	logging.Info("sync complete", "tasks", len(tasks), "failed", failed)
	c.notifier.Notify("Synced", "Your dashboard is up to date.")

	return results
}
