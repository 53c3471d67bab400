package worker

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TypeRoomMaintenance flushes buffered heartbeats and deletes stale rooms
const TypeRoomMaintenance = "rooms:maintenance"

// NewMaintenanceTask builds the periodic maintenance task. Unique keeps replicas
// from queueing it twice in one interval.
func NewMaintenanceTask() *asynq.Task {
	return asynq.NewTask(TypeRoomMaintenance, nil)
}

func maintenanceOptions(interval time.Duration) []asynq.Option {
	return []asynq.Option{
		asynq.Unique(interval),
		asynq.MaxRetry(1),
		asynq.Timeout(interval),
	}
}

// RedisOpt converts the go-redis options of the heartbeat client for asynq
func RedisOpt(o *redis.Options) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Network:   o.Network,
		Addr:      o.Addr,
		Username:  o.Username,
		Password:  o.Password,
		DB:        o.DB,
		TLSConfig: o.TLSConfig,
	}
}
