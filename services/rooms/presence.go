package rooms

import (
	redis_models "Undercover/models/redis"
	"sync"
	"time"
)

// Presence tracks which identity opened each live connection.
type Presence struct {
	mu           sync.RWMutex
	byConnection map[string]redis_models.Presence
}

func NewPresence() *Presence {
	return &Presence{byConnection: make(map[string]redis_models.Presence)}
}

// Bind records (or refreshes) the identity behind connectionID.
func (p *Presence) Bind(connectionID, identityID, displayName string, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	current, ok := p.byConnection[connectionID]
	if !ok {
		current = redis_models.Presence{ConnectionID: connectionID, ConnectedAt: now}
	}
	if identityID != "" {
		current.IdentityID = identityID
	}
	if displayName != "" {
		current.DisplayName = displayName
	}
	p.byConnection[connectionID] = current
}

func (p *Presence) Lookup(connectionID string) (redis_models.Presence, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	presence, ok := p.byConnection[connectionID]
	return presence, ok
}

func (p *Presence) Forget(connectionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byConnection, connectionID)
}

func (p *Presence) count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byConnection)
}

type DisconnectAction int

const (
	// DisconnectRemove drops the player and frees the display name.
	DisconnectRemove DisconnectAction = iota
	// DisconnectKeep leaves the player seated so the game state survives.
	DisconnectKeep
)

// ClassifyDisconnect decides what happens to a player whose connection dropped.
// Only guests in a waiting room are removed.
func ClassifyDisconnect(status redis_models.Status, player *redis_models.Player) DisconnectAction {
	switch status {
	case redis_models.StatusWaiting:
		if player.IsGuest() {
			return DisconnectRemove
		}
		return DisconnectKeep
	default:
		return DisconnectKeep
	}
}
