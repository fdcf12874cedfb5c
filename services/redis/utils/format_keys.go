package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format string every time, potentially confusing the key format.
 */

import "fmt"

// FinishedRoomsKey is a sorted set of finished room codes scored by their last
// update in unix milliseconds.
const FinishedRoomsKey = "rooms:finished"

func FormatRoomKey(roomCode string) string {
	return fmt.Sprintf("room:%s", roomCode)
}

// FormatConnectionRoomsKey is the set of room codes a connection has been seated in.
func FormatConnectionRoomsKey(connectionID string) string {
	return fmt.Sprintf("connection:%s:rooms", connectionID)
}
