package lobby

import (
	"Playroom/models"
	"context"
)

// RoomStore is the contract every room backend honours: the Postgres store on the
// server, the HTTP client and the local fallback cache on clients. Every mutating
// operation is atomic per room.
type RoomStore interface {
	CreateRoom(ctx context.Context, spec models.RoomSpec) (*models.Room, error)
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	GetRoomByCode(ctx context.Context, code string) (*models.Room, error)
	ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error)
	JoinRoom(ctx context.Context, code, userID, userName string) (*models.Room, error)
	LeaveRoom(ctx context.Context, roomID, userID string) error
	SetPlayerReady(ctx context.Context, roomID, userID string, ready bool) (*models.Room, error)
	SetPlayerTeam(ctx context.Context, roomID, userID, teamID string) (*models.Room, error)
	UpdateRoomStatus(ctx context.Context, roomID string, status models.RoomStatus) (*models.Room, error)
	StartRoom(ctx context.Context, roomID, callerID string) (*models.Room, error)
	UpdatePlayerActivity(ctx context.Context, roomID, userID string) error
	CleanupStaleRooms(ctx context.Context) (int, error)
}

// GroupStore is the contract for group/team rosters
type GroupStore interface {
	CreateGroup(ctx context.Context, spec models.GroupSpec) (*models.Group, error)
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupByCode(ctx context.Context, code string) (*models.Group, error)
	ListGroups(ctx context.Context, userID string) ([]models.Group, error)
	JoinGroup(ctx context.Context, code, userID, userName string) (*models.Group, error)
	LeaveGroup(ctx context.Context, groupID, userID string) error
	UpdateGroup(ctx context.Context, groupID, callerID string, upd models.GroupUpdate) (*models.Group, error)
	DeleteGroup(ctx context.Context, groupID, callerID string) error
}

// Store is a backend for both rooms and groups
type Store interface {
	RoomStore
	GroupStore
}

// Publisher receives lifecycle events once the store has committed them
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// EventType names a room lifecycle event
type EventType string

const (
	EventRoomCreated  EventType = "room_created"
	EventPlayerJoined EventType = "player_joined"
	EventPlayerLeft   EventType = "player_left"
	EventGameStarted  EventType = "game_started"
	EventGameFinished EventType = "game_finished"
	EventRoomsCleaned EventType = "rooms_cleaned"
)

// Event is a committed lifecycle change
type Event struct {
	Type     EventType    `json:"type"`
	RoomID   string       `json:"roomId,omitempty"`
	RoomCode string       `json:"roomCode,omitempty"`
	GameType string       `json:"gameType,omitempty"`
	UserID   string       `json:"userId,omitempty"`
	Room     *models.Room `json:"room,omitempty"`
	Count    int          `json:"count,omitempty"`
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}
