package models

import "time"

// GroupMember is a non-admin member of a group
type GroupMember struct {
	ID       string    `json:"id" validate:"required,max=64"`
	Name     string    `json:"name" validate:"required,max=50"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Group is a longer-lived social roster, independent of any room.
// Members never contain AdminID.
type Group struct {
	ID          string        `json:"id" validate:"required"`
	Name        string        `json:"name" validate:"required,max=50"`
	Code        string        `json:"code" validate:"required,len=6,alphanumunicode,uppercase"`
	AdminID     string        `json:"adminId" validate:"required,max=64"`
	AdminName   string        `json:"adminName" validate:"required,max=50"`
	Members     []GroupMember `json:"members" validate:"dive"`
	Description string        `json:"description" validate:"max=280"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Version     int64         `json:"version"`
}

// GroupSpec is what an admin provides when creating a group
type GroupSpec struct {
	Name        string `json:"name" binding:"required" validate:"required,max=50"`
	Description string `json:"description" validate:"max=280"`
	AdminID     string `json:"adminId" validate:"required,max=64"`
	AdminName   string `json:"adminName" validate:"required,max=50"`
}

// GroupUpdate holds the admin-editable fields. Nil means unchanged.
type GroupUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=280"`
}

// IsMember reports whether userID is the admin or one of the members
func (g *Group) IsMember(userID string) bool {
	if g.AdminID == userID {
		return true
	}
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	c := *g
	c.Members = append([]GroupMember(nil), g.Members...)
	return &c
}

// Participants lists the admin first, then members in join order
func (g Group) Participants() []Participant {
	out := make([]Participant, 0, len(g.Members)+1)
	out = append(out, Participant{ID: g.AdminID, Name: g.AdminName})
	for _, m := range g.Members {
		out = append(out, Participant{ID: m.ID, Name: m.Name})
	}
	return out
}

// CurrentStatus is empty: groups have no lifecycle
func (g Group) CurrentStatus() RoomStatus {
	return ""
}

// The following make Group usable by the reconciliation merger.

func (g Group) RecordID() string       { return g.ID }
func (g Group) MemberCount() int       { return len(g.Members) }
func (g Group) CreatedTime() time.Time { return g.CreatedAt }
func (g Group) RecordVersion() int64   { return g.Version }
