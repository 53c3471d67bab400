package models

import "time"

// RoomStatus is the lifecycle state of a room
type RoomStatus string

const (
	StatusWaiting  RoomStatus = "WAITING"
	StatusPlaying  RoomStatus = "PLAYING"
	StatusFinished RoomStatus = "FINISHED"
)

// Valid reports whether s is one of the known statuses
func (s RoomStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusPlaying, StatusFinished:
		return true
	}
	return false
}

// Player is a member of a room
type Player struct {
	ID         string    `json:"id" validate:"required,max=64"`
	Name       string    `json:"name" validate:"required,max=50"`
	TeamID     string    `json:"teamId,omitempty"`
	IsReady    bool      `json:"isReady"`
	IsHost     bool      `json:"isHost"`
	JoinedAt   time.Time `json:"joinedAt"`
	LastSeenAt time.Time `json:"lastSeenAt,omitempty"`
}

// Team groups players of a room when TeamMode is on
type Team struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name" validate:"required,max=30"`
	Color     string   `json:"color,omitempty"`
	PlayerIDs []string `json:"playerIds"`
}

// Room represents a short-lived multiplayer session keyed by a shareable code
type Room struct {
	ID             string         `json:"id" validate:"required"`
	Code           string         `json:"code" validate:"required,len=6,alphanumunicode,uppercase"`
	GameType       string         `json:"gameType" validate:"required,oneof=maze flappy tetris pacman trivia"`
	HostID         string         `json:"hostId"`
	HostName       string         `json:"hostName"`
	IsPrivate      bool           `json:"isPrivate"`
	Status         RoomStatus     `json:"status" validate:"required,oneof=WAITING PLAYING FINISHED"`
	MaxPlayers     int            `json:"maxPlayers" validate:"min=1,max=16"`
	MinPlayers     int            `json:"minPlayers" validate:"min=1,ltefield=MaxPlayers"`
	Players        []Player       `json:"currentPlayers" validate:"dive"`
	Settings       map[string]any `json:"settings"`
	TeamMode       bool           `json:"teamMode"`
	Teams          []Team         `json:"teams" validate:"dive"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	LastActivityAt time.Time      `json:"lastActivityAt"`
}

// RoomSpec carries what a host chooses when creating a room
type RoomSpec struct {
	GameType   string         `json:"gameType" binding:"required" validate:"required,oneof=maze flappy tetris pacman trivia"`
	HostID     string         `json:"hostId" validate:"required,max=64"`
	HostName   string         `json:"hostName" validate:"required,max=50"`
	IsPrivate  bool           `json:"isPrivate"`
	MaxPlayers int            `json:"maxPlayers" validate:"min=1,max=16"`
	MinPlayers int            `json:"minPlayers" validate:"min=1,ltefield=MaxPlayers"`
	Settings   map[string]any `json:"settings"`
	TeamMode   bool           `json:"teamMode"`
	Teams      []Team         `json:"teams"`
}

// RoomFilter narrows ListRooms. Only public rooms are ever listed.
type RoomFilter struct {
	GameType string     `form:"gameType"`
	Status   RoomStatus `form:"status"`
}

// Player returns the player with the given id, if present
func (r *Room) Player(userID string) (*Player, bool) {
	for i := range r.Players {
		if r.Players[i].ID == userID {
			return &r.Players[i], true
		}
	}
	return nil, false
}

// HasPlayer reports whether userID is in the room
func (r *Room) HasPlayer(userID string) bool {
	_, ok := r.Player(userID)
	return ok
}

// IsFull reports whether no seat is left
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}

// Clone returns a deep copy, so callers can mutate without touching a stored room
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.Players = append([]Player(nil), r.Players...)
	c.Teams = make([]Team, len(r.Teams))
	for i, t := range r.Teams {
		t.PlayerIDs = append([]string(nil), t.PlayerIDs...)
		c.Teams[i] = t
	}
	if r.Settings != nil {
		c.Settings = make(map[string]any, len(r.Settings))
		for k, v := range r.Settings {
			c.Settings[k] = v
		}
	}
	return &c
}

// Participants lists the room players in join order
func (r Room) Participants() []Participant {
	out := make([]Participant, len(r.Players))
	for i, p := range r.Players {
		out[i] = Participant{ID: p.ID, Name: p.Name}
	}
	return out
}

// CurrentStatus is the status seen by pollers
func (r Room) CurrentStatus() RoomStatus {
	return r.Status
}

// Participant is the poller's view of a room player or group member
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerReady reports the ready flag of userID and whether the player is in the room
func (r Room) PlayerReady(userID string) (bool, bool) {
	for _, p := range r.Players {
		if p.ID == userID {
			return p.IsReady, true
		}
	}
	return false, false
}
