package game_constants

import "time"

const MinPlayers = 3

// Mr. White only joins games with more than this many players
const MrWhiteMinExclusive = 4

// One undercover per this many players, at least one
const PlayersPerUndercover = 4

const MaxDisplayNameLength = 32
const MaxMessageLength = 500

// Redis TTL for live rooms
const DefaultRoomTTL = 24 * time.Hour

// Finished rooms are kept this long before the reaper disposes of them
const DefaultFinishedRoomGrace = 10 * time.Minute
const DefaultReapInterval = time.Minute

const RecentGamesLimit = 10

const RoomCodeLength = 6
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
