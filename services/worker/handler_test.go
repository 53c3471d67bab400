package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type fakeFlusher struct {
	calls int
	err   error
	order *[]string
}

func (f *fakeFlusher) FlushActivity() (int, error) {
	f.calls++
	*f.order = append(*f.order, "flush")
	return 2, f.err
}

type fakeCleaner struct {
	err   error
	order *[]string
}

func (f *fakeCleaner) Cleanup(context.Context) (int, error) {
	*f.order = append(*f.order, "cleanup")
	return 1, f.err
}

func TestMaintenanceFlushesBeforeCleanup(t *testing.T) {
	var order []string
	h := NewMaintenanceHandler(&fakeFlusher{order: &order}, &fakeCleaner{order: &order})

	err := h.ProcessTask(context.Background(), NewMaintenanceTask())
	assert.NoError(t, err)
	assert.Equal(t, []string{"flush", "cleanup"}, order)
}

func TestMaintenanceCleansEvenWhenFlushFails(t *testing.T) {
	var order []string
	flusher := &fakeFlusher{order: &order, err: errors.New("redis down")}
	h := NewMaintenanceHandler(flusher, &fakeCleaner{order: &order})

	assert.NoError(t, h.Run(context.Background()))
	assert.Equal(t, []string{"flush", "cleanup"}, order)
}

func TestMaintenanceReportsCleanupFailure(t *testing.T) {
	var order []string
	boom := errors.New("db down")
	h := NewMaintenanceHandler(nil, &fakeCleaner{order: &order, err: boom})

	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeRoomMaintenance, nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"cleanup"}, order)
}

type countingCleaner struct {
	passes atomic.Int32
}

func (c *countingCleaner) Cleanup(context.Context) (int, error) {
	c.passes.Add(1)
	return 0, nil
}

func TestRunLocalStopsWithContext(t *testing.T) {
	cleaner := &countingCleaner{}
	h := NewMaintenanceHandler(nil, cleaner)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunLocal(ctx, h, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return cleaner.passes.Load() > 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunLocal did not stop")
	}
}

func TestRedisOpt(t *testing.T) {
	opt := RedisOpt(&redis.Options{Addr: "cache:6379", Password: "pw", DB: 2})
	assert.Equal(t, "cache:6379", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 2, opt.DB)
}
