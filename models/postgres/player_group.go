package postgres

import (
	"Playroom/models"
	"time"
)

/*
 * 'PlayerGroup' is a persisted group roster. The admin is stored on the group row,
 * the other members in player_group_members.
 */
type PlayerGroup struct {
	ID          string `gorm:"primaryKey;size:36;not null"`
	Name        string `gorm:"size:50;not null"`
	Code        string `gorm:"size:6;not null;uniqueIndex:idx_player_groups_code"`
	AdminID     string `gorm:"size:64;not null;index:idx_player_groups_admin"`
	AdminName   string `gorm:"size:50;not null"`
	Description string `gorm:"size:280"`
	Version     int64  `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Members []PlayerGroupMember `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type PlayerGroupMember struct {
	GroupID  string `gorm:"primaryKey;size:36;not null"`
	UserID   string `gorm:"primaryKey;size:64;not null;index"`
	Name     string `gorm:"size:50;not null"`
	JoinedAt time.Time
}

func NewPlayerGroup(g *models.Group) *PlayerGroup {
	row := &PlayerGroup{
		ID:          g.ID,
		Name:        g.Name,
		Code:        g.Code,
		AdminID:     g.AdminID,
		AdminName:   g.AdminName,
		Description: g.Description,
		Version:     g.Version,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		Members:     make([]PlayerGroupMember, len(g.Members)),
	}
	for i, m := range g.Members {
		row.Members[i] = PlayerGroupMember{GroupID: g.ID, UserID: m.ID, Name: m.Name, JoinedAt: m.JoinedAt}
	}
	return row
}

func (p *PlayerGroup) ToModel() *models.Group {
	g := &models.Group{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		AdminID:     p.AdminID,
		AdminName:   p.AdminName,
		Description: p.Description,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Members:     make([]models.GroupMember, len(p.Members)),
	}
	for i, m := range p.Members {
		g.Members[i] = models.GroupMember{ID: m.UserID, Name: m.Name, JoinedAt: m.JoinedAt}
	}
	return g
}
