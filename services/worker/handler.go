package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// ActivityFlusher writes buffered heartbeats to the database
type ActivityFlusher interface {
	FlushActivity() (int, error)
}

// Cleaner deletes stale rooms
type Cleaner interface {
	Cleanup(ctx context.Context) (int, error)
}

// MaintenanceHandler runs one maintenance pass. Heartbeats are flushed first so that
// cleanup sees the latest activity of every room.
type MaintenanceHandler struct {
	flusher ActivityFlusher
	cleaner Cleaner
}

// NewMaintenanceHandler creates the handler; flusher may be nil when heartbeats go
// straight to the database
func NewMaintenanceHandler(flusher ActivityFlusher, cleaner Cleaner) *MaintenanceHandler {
	return &MaintenanceHandler{flusher: flusher, cleaner: cleaner}
}

// ProcessTask implements asynq.Handler
func (h *MaintenanceHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	logCtx := logrus.WithFields(logrus.Fields{"task_id": taskID, "task_type": t.Type()})
	return h.run(ctx, logCtx)
}

// Run performs a pass outside of asynq
func (h *MaintenanceHandler) Run(ctx context.Context) error {
	return h.run(ctx, logrus.WithField("task_type", TypeRoomMaintenance))
}

func (h *MaintenanceHandler) run(ctx context.Context, logCtx *logrus.Entry) error {
	if h.flusher != nil {
		flushed, err := h.flusher.FlushActivity()
		if err != nil {
			// stale activity only makes cleanup more eager, keep going
			logCtx.WithField("rooms", flushed).WithError(err).Warn("[MAINTENANCE] heartbeat flush incomplete")
		} else if flushed > 0 {
			logCtx.WithField("rooms", flushed).Debug("[MAINTENANCE] heartbeats flushed")
		}
	}
	deleted, err := h.cleaner.Cleanup(ctx)
	if err != nil {
		return fmt.Errorf("stale room cleanup failed: %w", err)
	}
	logCtx.WithField("deleted", deleted).Debug("[MAINTENANCE] pass done")
	return nil
}
