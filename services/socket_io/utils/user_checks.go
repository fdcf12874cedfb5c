package socketio_utils

import (
	"Undercover/middleware"

	"github.com/rs/zerolog/log"
)

// Function that resolves the identity behind a socket.io handshake.
// No token means a guest. A token that fails verification is an error.
func VerifyUserConnection(auth interface{}, verifier *middleware.IdentityVerifier) (middleware.Identity, error) {
	authData, ok := auth.(map[string]interface{})
	if !ok {
		return middleware.Identity{}, nil
	}
	token, _ := authData["authorization"].(string)
	if token == "" {
		return middleware.Identity{}, nil
	}
	if !verifier.Enabled() {
		log.Debug().Str("module", "socket_io").Msg("token ignored, no jwt secret configured")
		return middleware.Identity{}, nil
	}
	return verifier.Verify(token)
}
