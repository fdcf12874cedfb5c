package game

import (
	game_constants "Undercover/constants/game"
	redis_models "Undercover/models/redis"
	"fmt"
	"math/rand"
)

// Assignment is the outcome of dealing roles to n players.
// Roles[i] belongs to the i-th player in the order the players were given.
type Assignment struct {
	Pair  WordPair
	Roles []redis_models.Role
}

// Word returns the secret word dealt with role, nil for mr_white.
func (a Assignment) Word(role redis_models.Role) (*string, error) {
	var w string
	switch role {
	case redis_models.RoleUndercover:
		w = a.Pair.Undercover
	case redis_models.RoleCivilian:
		w = a.Pair.Civilian
	case redis_models.RoleMrWhite, redis_models.RoleUnassigned:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown role %q", string(role))
	}
	return &w, nil
}

// UndercoverCount is max(1, floor(n/4)).
func UndercoverCount(n int) int {
	return max(1, n/game_constants.PlayersPerUndercover)
}

// Permutation returns a uniformly random ordering of 0..n-1 (Fisher-Yates).
func Permutation(n int, rng *rand.Rand) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// AssignRoles draws a word pair and deals roles over a random permutation of the players:
// the first UndercoverCount(n) get the undercover word, the last one becomes mr_white when
// n > 4, everyone else is a civilian.
func AssignRoles(n int, catalog *Catalog, rng *rand.Rand) (Assignment, error) {
	if n < game_constants.MinPlayers {
		return Assignment{}, ErrInsufficientPlayers
	}
	pair := catalog.Pick(rng)
	undercovers := UndercoverCount(n)
	roles := make([]redis_models.Role, n)
	for pos, idx := range Permutation(n, rng) {
		switch {
		case pos < undercovers:
			roles[idx] = redis_models.RoleUndercover
		case pos == n-1 && n > game_constants.MrWhiteMinExclusive:
			roles[idx] = redis_models.RoleMrWhite
		default:
			roles[idx] = redis_models.RoleCivilian
		}
	}
	return Assignment{Pair: pair, Roles: roles}, nil
}
