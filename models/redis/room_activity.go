package redis

import "time"

// RoomActivity holds the heartbeats buffered in Redis for one room since the last flush
type RoomActivity struct {
	RoomID         string               `json:"room_id"`
	Players        map[string]time.Time `json:"players"` // user id -> last heartbeat
	LastActivityAt time.Time            `json:"last_activity_at"`
}
