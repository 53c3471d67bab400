package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

// Set of room ids with heartbeats not yet flushed to PostgreSQL
const DirtyRoomsKey = "activity:rooms"

func FormatRoomActivityKey(roomId string) string {
	return fmt.Sprintf("activity:room:%s", roomId)
}

func FormatFlushingActivityKey(roomId string) string {
	return fmt.Sprintf("activity:room:%s:flushing", roomId)
}
