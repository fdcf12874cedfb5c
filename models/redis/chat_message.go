package redis

import "time"

// ChatMessage represents a message in the room chat. Messages are append-only.
type ChatMessage struct {
	AuthorConnectionID string    `json:"authorConnectionId"`
	AuthorDisplayName  string    `json:"authorDisplayName"`
	Text               string    `json:"text"`
	SentAt             time.Time `json:"sentAt"`
}
