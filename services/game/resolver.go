package game

import (
	redis_models "Undercover/models/redis"
)

// RoundResult describes what EndRound did to the room.
type RoundResult struct {
	Eliminated *redis_models.Player // nil when nobody received a vote
	Winner     redis_models.Winner
	Finished   bool
}

// Tally returns the alive player with the strictly highest vote count above zero.
// Ties go to whoever comes first in the player list.
func Tally(players []*redis_models.Player) *redis_models.Player {
	var top *redis_models.Player
	maxVotes := 0
	for _, p := range players {
		if p.Alive && p.VoteCount > maxVotes {
			maxVotes = p.VoteCount
			top = p
		}
	}
	return top
}

// EvaluateWinner checks the win conditions over the alive players.
//
// With zero undercover and zero civilians alive but mr_white still standing,
// 0 >= 0 hands the win to the undercover side. That is the rule as played and is kept.
func EvaluateWinner(room *redis_models.RoomState) redis_models.Winner {
	undercover := room.AliveCount(redis_models.RoleUndercover)
	mrWhite := room.AliveCount(redis_models.RoleMrWhite)
	civilians := room.AliveCount(redis_models.RoleCivilian)

	switch {
	case undercover == 0 && mrWhite == 0:
		return redis_models.WinnerCivilians
	case undercover >= civilians:
		return redis_models.WinnerUndercover
	default:
		return redis_models.WinnerNone
	}
}

// ResolveRound eliminates the most voted player, clears the votes, advances the round
// and finishes the game when a side has won.
func ResolveRound(room *redis_models.RoomState) (RoundResult, error) {
	var result RoundResult

	if top := Tally(room.Players); top != nil {
		top.Alive = false
		result.Eliminated = top.Clone()
	}

	for _, p := range room.Players {
		p.VoteCount = 0
		p.HasVotedThisRound = false
	}
	room.CurrentRound++

	result.Winner = EvaluateWinner(room)
	if result.Winner != redis_models.WinnerNone {
		if err := room.TransitionTo(redis_models.StatusFinished); err != nil {
			return RoundResult{}, err
		}
		room.Winner = result.Winner
		result.Finished = true
	}
	return result, nil
}
