package rooms

import (
	game_constants "Undercover/constants/game"
	crand "crypto/rand"
	"math/big"
	"math/rand"
)

// GenerateRoomCode creates a random room code
func GenerateRoomCode() string {
	chars := game_constants.RoomCodeChars
	code := make([]byte, game_constants.RoomCodeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = chars[rand.Intn(len(chars))]
			continue
		}
		code[i] = chars[n.Int64()]
	}
	return string(code)
}
