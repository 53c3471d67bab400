package redis

import (
	redis_models "Playroom/models/redis"
	redis_utils "Playroom/services/redis/utils"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Heartbeats older than this are dropped by Redis if nobody flushed them
const activityTTL = 24 * time.Hour

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance. Anything other than the local
// default address is parsed as a redis:// URL.
func NewRedisClient(Addr string, DB int) (*RedisClient, error) {
	var client *redis.Client
	if Addr != "localhost:6379" {
		logrus.Info("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %v", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}, nil
}

// Options exposes the connection settings, the task queue reuses them
func (rc *RedisClient) Options() *redis.Options {
	return rc.client.Options()
}

// RecordActivity buffers a heartbeat of userID in roomID
// Key format: "activity:room:{id}" (hash user id -> unix millis)
// TTL: 24 hours
func (rc *RedisClient) RecordActivity(roomID, userID string, at time.Time) error {
	key := redis_utils.FormatRoomActivityKey(roomID)
	pipe := rc.client.TxPipeline()
	pipe.HSet(rc.ctx, key, userID, at.UnixMilli())
	pipe.Expire(rc.ctx, key, activityTTL)
	pipe.SAdd(rc.ctx, redis_utils.DirtyRoomsKey, roomID)
	if _, err := pipe.Exec(rc.ctx); err != nil {
		return fmt.Errorf("error recording activity: %v", err)
	}
	return nil
}

// TakeActivity removes and returns every buffered heartbeat. Each room hash is renamed
// before it is read, so heartbeats arriving meanwhile stay for the next call.
func (rc *RedisClient) TakeActivity() ([]redis_models.RoomActivity, error) {
	roomIDs, err := rc.client.SMembers(rc.ctx, redis_utils.DirtyRoomsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("error listing active rooms: %v", err)
	}

	var out []redis_models.RoomActivity
	var read []string
	defer func() {
		// flushing keys keep the TTL of the hash they were renamed from
		if err := rc.CleanupKeys(read); err != nil {
			logrus.WithError(err).Warn("[REDIS] flushed activity left until expiry")
		}
	}()
	for _, roomID := range roomIDs {
		if err := rc.client.SRem(rc.ctx, redis_utils.DirtyRoomsKey, roomID).Err(); err != nil {
			return out, fmt.Errorf("error unmarking room %s: %v", roomID, err)
		}
		key := redis_utils.FormatRoomActivityKey(roomID)
		flushing := redis_utils.FormatFlushingActivityKey(roomID)
		if err := rc.client.Rename(rc.ctx, key, flushing).Err(); err != nil {
			// already taken by a previous flush
			if strings.Contains(err.Error(), "no such key") {
				continue
			}
			return out, fmt.Errorf("error renaming activity of room %s: %v", roomID, err)
		}
		fields, err := rc.client.HGetAll(rc.ctx, flushing).Result()
		if err != nil {
			return out, fmt.Errorf("error reading activity of room %s: %v", roomID, err)
		}
		read = append(read, flushing)

		activity := redis_models.RoomActivity{RoomID: roomID, Players: make(map[string]time.Time, len(fields))}
		for userID, raw := range fields {
			ms, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).Warn("[REDIS] malformed heartbeat dropped")
				continue
			}
			at := time.UnixMilli(ms).UTC()
			activity.Players[userID] = at
			if at.After(activity.LastActivityAt) {
				activity.LastActivityAt = at
			}
		}
		if len(activity.Players) > 0 {
			out = append(out, activity)
		}
	}
	return out, nil
}
