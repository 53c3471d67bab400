package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// WorkerServer schedules the maintenance task every interval and processes it
type WorkerServer struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	handler   *MaintenanceHandler
	interval  time.Duration
	log       *logrus.Entry
}

func NewWorkerServer(redisOpt asynq.RedisConnOpt, handler *MaintenanceHandler, interval time.Duration) *WorkerServer {
	logEntry := logrus.WithField("component", "worker_server")
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 1,
			Queues:      map[string]int{"default": 1},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retryCount, _ := asynq.GetRetryCount(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"retries":   retryCount,
				}).WithError(err).Error("[WORKER] task failed")
			}),
		},
	)
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC})
	return &WorkerServer{
		server:    server,
		scheduler: scheduler,
		handler:   handler,
		interval:  interval,
		log:       logEntry,
	}
}

// Start registers the periodic task and starts both the scheduler and the worker.
// It does not block.
func (ws *WorkerServer) Start() error {
	spec := fmt.Sprintf("@every %s", ws.interval)
	if _, err := ws.scheduler.Register(spec, NewMaintenanceTask(), maintenanceOptions(ws.interval)...); err != nil {
		return fmt.Errorf("error registering maintenance task: %w", err)
	}
	if err := ws.scheduler.Start(); err != nil {
		return fmt.Errorf("error starting scheduler: %w", err)
	}

	mux := asynq.NewServeMux()
	mux.Handle(TypeRoomMaintenance, ws.handler)
	if err := ws.server.Start(mux); err != nil {
		ws.scheduler.Shutdown()
		return fmt.Errorf("error starting worker server: %w", err)
	}
	ws.log.WithField("interval", ws.interval).Info("[WORKER] maintenance scheduled")
	return nil
}

func (ws *WorkerServer) Shutdown() {
	ws.scheduler.Shutdown()
	ws.server.Shutdown()
	ws.log.Info("[WORKER] stopped")
}

// RunLocal runs the maintenance pass on a ticker until ctx is done. Used when no
// Redis is configured, so there is no queue to share between replicas.
func RunLocal(ctx context.Context, handler *MaintenanceHandler, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := handler.Run(ctx); err != nil {
				logrus.WithError(err).Error("[WORKER] maintenance pass failed")
			}
		}
	}
}
