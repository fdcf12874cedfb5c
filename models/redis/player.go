package redis

type Role string

const (
	RoleUnassigned Role = "unassigned"
	RoleUndercover Role = "undercover"
	RoleCivilian   Role = "civilian"
	RoleMrWhite    Role = "mr_white"
)

// Player represents a participant of a room
type Player struct {
	ConnectionID      string  `json:"connectionId"`         // Current socket.io socket id, rebound on reconnection
	IdentityID        string  `json:"identityId,omitempty"` // Empty for guests
	DisplayName       string  `json:"displayName"`
	Role              Role    `json:"role"`
	SecretWord        *string `json:"secretWord"` // nil for mr_white and while waiting
	Alive             bool    `json:"alive"`
	VoteCount         int     `json:"voteCount"`
	HasVotedThisRound bool    `json:"hasVotedThisRound"`
}

func NewPlayer(connectionID, identityID, displayName string) *Player {
	return &Player{
		ConnectionID: connectionID,
		IdentityID:   identityID,
		DisplayName:  displayName,
		Role:         RoleUnassigned,
		Alive:        true,
	}
}

// IsGuest reports whether the player joined without a durable identity.
func (p *Player) IsGuest() bool {
	return p.IdentityID == ""
}

// Word returns the secret word or "" when the player has none.
func (p *Player) Word() string {
	if p.SecretWord == nil {
		return ""
	}
	return *p.SecretWord
}

func (p *Player) Clone() *Player {
	c := *p
	if p.SecretWord != nil {
		w := *p.SecretWord
		c.SecretWord = &w
	}
	return &c
}
