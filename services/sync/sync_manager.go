package sync

import (
	redis_models "Playroom/models/redis"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ActivitySource hands out heartbeats buffered in Redis
type ActivitySource interface {
	TakeActivity() ([]redis_models.RoomActivity, error)
}

type SyncManager struct {
	redisClient ActivitySource
	db          *sql.DB
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(redisClient ActivitySource, db *sql.DB) *SyncManager {
	return &SyncManager{
		redisClient: redisClient,
		db:          db,
	}
}

// SyncRoomActivity writes the buffered heartbeats of one room to PostgreSQL.
// Timestamps only move forward.
func (sm *SyncManager) SyncRoomActivity(activity redis_models.RoomActivity) error {
	tx, err := sm.db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %v", err)
	}
	defer tx.Rollback()

	roomQuery := `
		UPDATE game_rooms
		SET last_activity_at = GREATEST(last_activity_at, $1)
		WHERE id = $2
	`
	res, err := tx.Exec(roomQuery, activity.LastActivityAt, activity.RoomID)
	if err != nil {
		return fmt.Errorf("error updating room activity in PostgreSQL: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// room was cleaned up meanwhile
		return nil
	}

	playerQuery := `
		UPDATE room_players
		SET last_seen_at = GREATEST(last_seen_at, $1)
		WHERE room_id = $2 AND user_id = $3
	`
	for userID, seen := range activity.Players {
		if _, err := tx.Exec(playerQuery, seen, activity.RoomID, userID); err != nil {
			return fmt.Errorf("error updating player activity in PostgreSQL: %v", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %v", err)
	}
	return nil
}

// FlushActivity moves every buffered heartbeat from Redis to PostgreSQL and returns
// the number of rooms written. Rooms that fail are skipped and reported together in
// the error. It runs before stale-room cleanup.
func (sm *SyncManager) FlushActivity() (int, error) {
	if sm == nil || sm.redisClient == nil {
		return 0, nil
	}
	pending, err := sm.redisClient.TakeActivity()
	if err != nil {
		return 0, fmt.Errorf("error taking activity from Redis: %v", err)
	}
	// the heartbeats are already out of Redis, a failing room must not cost the others theirs
	synced := 0
	var errs []error
	for _, activity := range pending {
		if err := sm.SyncRoomActivity(activity); err != nil {
			logrus.WithField("room_id", activity.RoomID).WithError(err).Warn("[SYNC] heartbeats of room dropped")
			errs = append(errs, fmt.Errorf("room %s: %w", activity.RoomID, err))
			continue
		}
		synced++
	}
	if synced > 0 {
		logrus.WithField("rooms", synced).Debug("[SYNC] heartbeats flushed")
	}
	return synced, errors.Join(errs...)
}
