package game

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrNameTaken           = errors.New("display name already taken")
	ErrInsufficientPlayers = errors.New("not enough players")
	ErrGameNotInProgress   = errors.New("game not in progress")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrPersistenceFailure  = errors.New("persistence failure")
	ErrRateLimited         = errors.New("rate limited")
	ErrUnauthorized        = errors.New("invalid identity token")
)

// Code is a machine-readable error code sent to clients alongside the message.
type Code string

const (
	CodeUnknown             Code = "UNKNOWN"
	CodeRoomNotFound        Code = "ROOM_NOT_FOUND"
	CodeGameAlreadyStarted  Code = "GAME_ALREADY_STARTED"
	CodeNameTaken           Code = "NAME_TAKEN"
	CodeInsufficientPlayers Code = "INSUFFICIENT_PLAYERS"
	CodeGameNotInProgress   Code = "GAME_NOT_IN_PROGRESS"
	CodeInvalidRequest      Code = "INVALID_REQUEST"
	CodePersistenceFailure  Code = "PERSISTENCE_FAILURE"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeUnauthorized        Code = "UNAUTHORIZED"
)

var taxonomy = []struct {
	err     error
	code    Code
	message string
}{
	{ErrRoomNotFound, CodeRoomNotFound, "Room not found. Please check the room code."},
	{ErrGameAlreadyStarted, CodeGameAlreadyStarted, "Game has already started. Cannot join."},
	{ErrNameTaken, CodeNameTaken, "This name is already taken in the room. Please choose another name."},
	{ErrInsufficientPlayers, CodeInsufficientPlayers, "Need at least 3 players to start"},
	{ErrGameNotInProgress, CodeGameNotInProgress, "The game is not in progress."},
	{ErrInvalidRequest, CodeInvalidRequest, "Invalid request."},
	{ErrPersistenceFailure, CodePersistenceFailure, "The server could not save the room. Please try again."},
	{ErrRateLimited, CodeRateLimited, "Too many requests. Please slow down."},
	{ErrUnauthorized, CodeUnauthorized, "Your session is invalid. Please sign in again."},
}

// CodeOf maps err onto the error taxonomy.
func CodeOf(err error) Code {
	for _, t := range taxonomy {
		if errors.Is(err, t.err) {
			return t.code
		}
	}
	return CodeUnknown
}

// UserMessage returns the notice shown to the player who triggered err.
func UserMessage(err error) string {
	for _, t := range taxonomy {
		if errors.Is(err, t.err) {
			return t.message
		}
	}
	return "Something went wrong."
}
