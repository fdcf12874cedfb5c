package redis

import "time"

// Presence binds a transient socket.io connection to the identity that opened it.
type Presence struct {
	ConnectionID string    `json:"connectionId"`
	IdentityID   string    `json:"identityId,omitempty"` // Empty for guests
	DisplayName  string    `json:"displayName,omitempty"`
	ConnectedAt  time.Time `json:"connectedAt"`
}

// CanReconnect reports whether a dropped connection can later be rebound.
func (p Presence) CanReconnect() bool {
	return p.IdentityID != ""
}
