// Package jobs runs background work decoupled from request handling.
// Currently this is the activity recorder: task status changes are queued
// and written to the activity log by a single worker goroutine, so a slow
// insert never delays the mutation that caused it.
package jobs

import (
	"context"
	"sync"

	"github.com/devhubhq/devhub/internal/logging"
	"github.com/devhubhq/devhub/internal/server/models"
	"github.com/devhubhq/devhub/internal/server/repositories/activities"
)

// statusLabels maps a status value to its display label.
var statusLabels = map[string]string{
	models.TaskStatusPending:    "Pending",
	models.TaskStatusInProgress: "In progress",
	models.TaskStatusCompleted:  "Completed",
}

// HumanizeStatus returns the display label for a status value. Unknown
// values are returned unchanged.
func HumanizeStatus(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// StatusChange describes one task status transition to record.
type StatusChange struct {
	TaskID string
	From   string
	To     string
}

// Recorder serializes activity writes through a buffered queue and one
// worker goroutine.
type Recorder struct {
	repo   activities.Repository
	logger logging.Logger
	queue  chan StatusChange
	wg     sync.WaitGroup
	once   sync.Once
}

// NewRecorder constructs a Recorder with the given queue capacity and
// starts its worker.
func NewRecorder(repo activities.Repository, logger logging.Logger, buffer int) *Recorder {
	r := &Recorder{
		repo:   repo,
		logger: logger,
		queue:  make(chan StatusChange, buffer),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer r.wg.Done()
	ctx := context.Background()
	for change := range r.queue {
		activity := &models.Activity{
			TaskID: change.TaskID,
			Action: "Task status changed from " + HumanizeStatus(change.From) + " to " + HumanizeStatus(change.To),
		}
		if _, err := r.repo.Create(ctx, activity); err != nil {
			r.logger.Error(ctx, "error recording activity", "task_id", change.TaskID, "error", err)
		}
	}
}

// Enqueue queues a status change for recording. Blocks only when the
// buffer is full.
func (r *Recorder) Enqueue(change StatusChange) {
	r.queue <- change
}

// Close stops accepting work and waits for queued changes to be written.
// Safe to call more than once.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}
