package lobby

import (
	lobby_constants "Playroom/constants/lobby"
	"Playroom/models"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ledongthuc/goterators"
)

// The functions in this file are the room state machine. Every store runs them inside its
// per-room atomic section, so the rules hold whichever backend is in use.

var validate = validator.New()

// Validate checks the validate tags of a model and maps failures to ErrValidation
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// NewRoom builds a WAITING room whose only player is the host
func NewRoom(spec models.RoomSpec, code string, now time.Time) (*models.Room, error) {
	spec.HostID = strings.TrimSpace(spec.HostID)
	spec.HostName = strings.TrimSpace(spec.HostName)
	spec.GameType = strings.ToLower(strings.TrimSpace(spec.GameType))
	if spec.MaxPlayers == 0 {
		spec.MaxPlayers = lobby_constants.DEFAULT_MAX_PLAYERS
	}
	if spec.MinPlayers == 0 {
		spec.MinPlayers = min(lobby_constants.DEFAULT_MIN_PLAYERS, spec.MaxPlayers)
	}
	if err := Validate(spec); err != nil {
		return nil, err
	}

	room := &models.Room{
		ID:         uuid.NewString(),
		Code:       code,
		GameType:   spec.GameType,
		HostID:     spec.HostID,
		HostName:   spec.HostName,
		IsPrivate:  spec.IsPrivate,
		Status:     models.StatusWaiting,
		MaxPlayers: spec.MaxPlayers,
		MinPlayers: spec.MinPlayers,
		Players: []models.Player{{
			ID:         spec.HostID,
			Name:       spec.HostName,
			IsHost:     true,
			JoinedAt:   now,
			LastSeenAt: now,
		}},
		Settings:       spec.Settings,
		TeamMode:       spec.TeamMode,
		Teams:          []models.Team{},
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
	}
	if room.Settings == nil {
		room.Settings = map[string]any{}
	}
	if spec.TeamMode {
		room.Teams = newTeams(spec.Teams)
	}
	if err := Validate(room); err != nil {
		return nil, err
	}
	return room, nil
}

func newTeams(requested []models.Team) []models.Team {
	teams := make([]models.Team, 0, len(requested))
	for _, t := range requested {
		if strings.TrimSpace(t.Name) == "" {
			continue
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		t.PlayerIDs = []string{}
		teams = append(teams, t)
	}
	if len(teams) > 0 {
		return teams
	}
	for i, name := range lobby_constants.DEFAULT_TEAM_NAMES {
		teams = append(teams, models.Team{
			ID:        uuid.NewString(),
			Name:      name,
			Color:     lobby_constants.DEFAULT_TEAM_COLORS[i],
			PlayerIDs: []string{},
		})
	}
	return teams
}

// ApplyJoin appends a non-host, not-ready player
func ApplyJoin(room *models.Room, userID, userName string, now time.Time) error {
	userID = strings.TrimSpace(userID)
	userName = strings.TrimSpace(userName)
	if userID == "" || userName == "" {
		return validationError("user id and name are required")
	}
	if room.HasPlayer(userID) {
		return ErrAlreadyMember
	}
	if room.Status != models.StatusWaiting {
		return ErrNotJoinable
	}
	if room.IsFull() {
		return ErrFull
	}
	room.Players = append(room.Players, models.Player{
		ID:         userID,
		Name:       userName,
		JoinedAt:   now,
		LastSeenAt: now,
	})
	touch(room, now)
	return nil
}

// ApplyLeave removes userID in any state and reports whether the room changed. A departing
// host hands the role to the earliest-joined remaining player. The room itself is never
// deleted here, even when it ends up empty.
func ApplyLeave(room *models.Room, userID string, now time.Time) bool {
	leaving, ok := room.Player(userID)
	if !ok {
		return false
	}
	wasHost := leaving.IsHost

	room.Players = goterators.Filter(room.Players, func(p models.Player) bool {
		return p.ID != userID
	})
	for i := range room.Teams {
		room.Teams[i].PlayerIDs = goterators.Filter(room.Teams[i].PlayerIDs, func(id string) bool {
			return id != userID
		})
	}

	if wasHost && len(room.Players) > 0 {
		next := &room.Players[0]
		next.IsHost = true
		room.HostID = next.ID
		room.HostName = next.Name
	}
	touch(room, now)
	return true
}

// ApplySetReady toggles a player's ready flag. Outside WAITING it changes nothing.
func ApplySetReady(room *models.Room, userID string, ready bool, now time.Time) error {
	p, ok := room.Player(userID)
	if !ok {
		return fmt.Errorf("%w: player %s is not in room %s", ErrNotFound, userID, room.Code)
	}
	if room.Status != models.StatusWaiting {
		return nil
	}
	p.IsReady = ready
	touch(room, now)
	return nil
}

// ApplySetTeam moves a player to teamID, or out of any team when teamID is empty
func ApplySetTeam(room *models.Room, userID, teamID string, now time.Time) error {
	if !room.TeamMode {
		return validationError("room %s is not in team mode", room.Code)
	}
	if room.Status != models.StatusWaiting {
		return ErrInvalidTransition
	}
	p, ok := room.Player(userID)
	if !ok {
		return fmt.Errorf("%w: player %s is not in room %s", ErrNotFound, userID, room.Code)
	}
	target := -1
	for i, t := range room.Teams {
		if t.ID == teamID {
			target = i
		}
	}
	if teamID != "" && target < 0 {
		return fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}
	for i := range room.Teams {
		room.Teams[i].PlayerIDs = goterators.Filter(room.Teams[i].PlayerIDs, func(id string) bool {
			return id != userID
		})
	}
	if target >= 0 {
		room.Teams[target].PlayerIDs = append(room.Teams[target].PlayerIDs, userID)
	}
	p.TeamID = teamID
	touch(room, now)
	return nil
}

// ApplyStatus performs a raw status transition. Only WAITING->PLAYING and
// PLAYING->FINISHED are legal.
func ApplyStatus(room *models.Room, status models.RoomStatus, now time.Time) error {
	if !status.Valid() {
		return validationError("unknown status %q", status)
	}
	legal := (room.Status == models.StatusWaiting && status == models.StatusPlaying) ||
		(room.Status == models.StatusPlaying && status == models.StatusFinished)
	if !legal {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, room.Status, status)
	}
	room.Status = status
	touch(room, now)
	return nil
}

// ApplyStart moves the room to PLAYING on behalf of callerID, enforcing host
// authority and the ready gate. On error the room is untouched.
func ApplyStart(room *models.Room, callerID string, now time.Time) error {
	if room.HostID != callerID {
		return fmt.Errorf("%w: only the host can start the game", ErrAuthorization)
	}
	if room.Status != models.StatusWaiting {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, room.Status, models.StatusPlaying)
	}
	gate := EvaluateGate(room)
	if !gate.CanStart {
		return fmt.Errorf("%w: %d of %d players", ErrNotReady, len(room.Players), room.MinPlayers)
	}
	if !gate.AllReady {
		return fmt.Errorf("%w: waiting for players to be ready", ErrNotReady)
	}
	return ApplyStatus(room, models.StatusPlaying, now)
}

// ApplyActivity records a heartbeat from userID
func ApplyActivity(room *models.Room, userID string, now time.Time) {
	if p, ok := room.Player(userID); ok {
		p.LastSeenAt = now
	}
	room.LastActivityAt = now
}

// IsStale reports whether cleanup should delete room
func IsStale(room *models.Room, now time.Time, staleAfter time.Duration) bool {
	if len(room.Players) == 0 {
		return true
	}
	return now.Sub(room.LastActivityAt) > staleAfter
}

func touch(room *models.Room, now time.Time) {
	room.UpdatedAt = now
	room.LastActivityAt = now
}

// NewGroup builds a group administered by spec.AdminID with no members yet
func NewGroup(spec models.GroupSpec, code string, now time.Time) (*models.Group, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	spec.AdminID = strings.TrimSpace(spec.AdminID)
	spec.AdminName = strings.TrimSpace(spec.AdminName)
	if err := Validate(spec); err != nil {
		return nil, err
	}
	g := &models.Group{
		ID:          uuid.NewString(),
		Name:        spec.Name,
		Code:        code,
		AdminID:     spec.AdminID,
		AdminName:   spec.AdminName,
		Members:     []models.GroupMember{},
		Description: strings.TrimSpace(spec.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}
	return g, Validate(g)
}

// ApplyGroupJoin adds userID as a member. Joining twice, or joining as the admin,
// leaves the group as it is and reports false.
func ApplyGroupJoin(g *models.Group, userID, userName string, now time.Time) (bool, error) {
	userID = strings.TrimSpace(userID)
	userName = strings.TrimSpace(userName)
	if userID == "" || userName == "" {
		return false, validationError("user id and name are required")
	}
	if g.IsMember(userID) {
		return false, nil
	}
	g.Members = append(g.Members, models.GroupMember{ID: userID, Name: userName, JoinedAt: now})
	bumpGroup(g, now)
	return true, nil
}

// ApplyGroupLeave removes a member. The admin cannot leave; they delete the group instead.
func ApplyGroupLeave(g *models.Group, userID string, now time.Time) (bool, error) {
	if g.AdminID == userID {
		return false, validationError("the admin cannot leave group %s, delete it instead", g.Code)
	}
	before := len(g.Members)
	g.Members = goterators.Filter(g.Members, func(m models.GroupMember) bool {
		return m.ID != userID
	})
	if len(g.Members) == before {
		return false, nil
	}
	bumpGroup(g, now)
	return true, nil
}

// ApplyGroupUpdate edits name/description on behalf of the admin
func ApplyGroupUpdate(g *models.Group, callerID string, upd models.GroupUpdate, now time.Time) error {
	if err := CheckGroupAdmin(g, callerID); err != nil {
		return err
	}
	if err := Validate(upd); err != nil {
		return err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return validationError("group name cannot be empty")
		}
		g.Name = name
	}
	if upd.Description != nil {
		g.Description = strings.TrimSpace(*upd.Description)
	}
	bumpGroup(g, now)
	return nil
}

// CheckGroupAdmin returns ErrAuthorization unless callerID administers g
func CheckGroupAdmin(g *models.Group, callerID string) error {
	if g.AdminID != callerID {
		return fmt.Errorf("%w: only the admin can change group %s", ErrAuthorization, g.Code)
	}
	return nil
}

func bumpGroup(g *models.Group, now time.Time) {
	g.UpdatedAt = now
	g.Version++
}
