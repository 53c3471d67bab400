package lobby_constants

import "time"

// Room and group codes
const CODE_LENGTH = 6
const CODE_CHARSET = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const MAX_CODE_ATTEMPTS = 10

// Room defaults, used when a RoomSpec leaves them at zero
const DEFAULT_MAX_PLAYERS = 4
const DEFAULT_MIN_PLAYERS = 2
const MAX_PLAYERS_LIMIT = 16

// Polling cadence
const ROOM_POLL_INTERVAL = 1500 * time.Millisecond
const GROUP_POLL_INTERVAL = 3 * time.Second

// A room without activity for this long is removed by cleanup
const STALE_ROOM_AFTER = 5 * time.Minute
const CLEANUP_INTERVAL = time.Minute

// Game types a room can be created for
var GAME_TYPES = []string{"maze", "flappy", "tetris", "pacman", "trivia"}

// Default teams for a room created in team mode without explicit teams
var DEFAULT_TEAM_NAMES = []string{"Red", "Blue"}
var DEFAULT_TEAM_COLORS = []string{"#e74c3c", "#3498db"}
