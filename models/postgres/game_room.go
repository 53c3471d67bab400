package postgres

import (
	"Playroom/models"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

/*
 * 'GameRoom' is the persisted form of a room. Players live in their own table
 * so a join only touches one row per player.
 */
type GameRoom struct {
	ID             string         `gorm:"primaryKey;size:36;not null"`
	Code           string         `gorm:"size:6;not null;uniqueIndex:idx_game_rooms_code"`
	GameType       string         `gorm:"size:20;not null;index:idx_game_rooms_listing"`
	HostID         string         `gorm:"size:64;not null"`
	HostName       string         `gorm:"size:50"`
	IsPrivate      bool           `gorm:"default:false;index:idx_game_rooms_listing"`
	Status         string         `gorm:"size:10;not null;default:'WAITING';index:idx_game_rooms_listing"`
	MaxPlayers     int            `gorm:"not null"`
	MinPlayers     int            `gorm:"not null"`
	Settings       datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	TeamMode       bool           `gorm:"default:false"`
	Teams          datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastActivityAt time.Time `gorm:"index:idx_game_rooms_activity"`

	// Relationship with the players currently in the room
	Players []RoomPlayer `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// NOTE: composite primary key, a user is at most once in a room
type RoomPlayer struct {
	RoomID     string `gorm:"primaryKey;size:36;not null"`
	UserID     string `gorm:"primaryKey;size:64;not null;index"`
	Name       string `gorm:"size:50;not null"`
	TeamID     string `gorm:"size:36"`
	IsReady    bool   `gorm:"default:false"`
	IsHost     bool   `gorm:"default:false"`
	Position   int    `gorm:"not null;default:0"` // join order inside the room
	JoinedAt   time.Time
	LastSeenAt time.Time
}

// NewGameRoom converts a domain room into its rows
func NewGameRoom(r *models.Room) (*GameRoom, error) {
	settings, err := json.Marshal(r.Settings)
	if err != nil {
		return nil, fmt.Errorf("error marshaling room settings: %w", err)
	}
	teams := r.Teams
	if teams == nil {
		teams = []models.Team{}
	}
	teamsJSON, err := json.Marshal(teams)
	if err != nil {
		return nil, fmt.Errorf("error marshaling room teams: %w", err)
	}
	row := &GameRoom{
		ID:             r.ID,
		Code:           r.Code,
		GameType:       r.GameType,
		HostID:         r.HostID,
		HostName:       r.HostName,
		IsPrivate:      r.IsPrivate,
		Status:         string(r.Status),
		MaxPlayers:     r.MaxPlayers,
		MinPlayers:     r.MinPlayers,
		Settings:       datatypes.JSON(settings),
		TeamMode:       r.TeamMode,
		Teams:          datatypes.JSON(teamsJSON),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		LastActivityAt: r.LastActivityAt,
		Players:        make([]RoomPlayer, len(r.Players)),
	}
	for i, p := range r.Players {
		row.Players[i] = RoomPlayer{
			RoomID:     r.ID,
			UserID:     p.ID,
			Name:       p.Name,
			TeamID:     p.TeamID,
			IsReady:    p.IsReady,
			IsHost:     p.IsHost,
			Position:   i,
			JoinedAt:   p.JoinedAt,
			LastSeenAt: p.LastSeenAt,
		}
	}
	return row, nil
}

// ToModel converts the rows back. Players must be loaded ordered by Position.
func (g *GameRoom) ToModel() (*models.Room, error) {
	r := &models.Room{
		ID:             g.ID,
		Code:           g.Code,
		GameType:       g.GameType,
		HostID:         g.HostID,
		HostName:       g.HostName,
		IsPrivate:      g.IsPrivate,
		Status:         models.RoomStatus(g.Status),
		MaxPlayers:     g.MaxPlayers,
		MinPlayers:     g.MinPlayers,
		Settings:       map[string]any{},
		TeamMode:       g.TeamMode,
		Teams:          []models.Team{},
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
		LastActivityAt: g.LastActivityAt,
		Players:        make([]models.Player, len(g.Players)),
	}
	if len(g.Settings) > 0 {
		if err := json.Unmarshal(g.Settings, &r.Settings); err != nil {
			return nil, fmt.Errorf("error unmarshaling settings of room %s: %w", g.ID, err)
		}
	}
	if len(g.Teams) > 0 {
		if err := json.Unmarshal(g.Teams, &r.Teams); err != nil {
			return nil, fmt.Errorf("error unmarshaling teams of room %s: %w", g.ID, err)
		}
	}
	for i, p := range g.Players {
		r.Players[i] = models.Player{
			ID:         p.UserID,
			Name:       p.Name,
			TeamID:     p.TeamID,
			IsReady:    p.IsReady,
			IsHost:     p.IsHost,
			JoinedAt:   p.JoinedAt,
			LastSeenAt: p.LastSeenAt,
		}
	}
	return r, nil
}
