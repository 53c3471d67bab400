package lobby

import (
	"Playroom/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func newTestRoom(t *testing.T, spec models.RoomSpec) *models.Room {
	t.Helper()
	if spec.GameType == "" {
		spec.GameType = "maze"
	}
	if spec.HostID == "" {
		spec.HostID, spec.HostName = "h", "Host"
	}
	room, err := NewRoom(spec, "ABC123", t0)
	require.NoError(t, err)
	return room
}

func TestNewRoomDefaults(t *testing.T) {
	room := newTestRoom(t, models.RoomSpec{GameType: " Trivia "})

	assert.Equal(t, "trivia", room.GameType)
	assert.Equal(t, models.StatusWaiting, room.Status)
	assert.Equal(t, 4, room.MaxPlayers)
	assert.Equal(t, 2, room.MinPlayers)
	require.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsHost)
	assert.False(t, room.Players[0].IsReady)
	assert.NotNil(t, room.Settings)
	assert.Empty(t, room.Teams)
}

func TestNewRoomClampsMinToMax(t *testing.T) {
	room := newTestRoom(t, models.RoomSpec{MaxPlayers: 1})
	assert.Equal(t, 1, room.MinPlayers)
}

func TestNewRoomValidation(t *testing.T) {
	bad := []models.RoomSpec{
		{GameType: "chess", HostID: "h", HostName: "Host"},
		{GameType: "maze", HostID: "", HostName: "Host"},
		{GameType: "maze", HostID: "h", HostName: "  "},
		{GameType: "maze", HostID: "h", HostName: "Host", MaxPlayers: 17},
		{GameType: "maze", HostID: "h", HostName: "Host", MaxPlayers: 3, MinPlayers: 4},
	}
	for _, spec := range bad {
		_, err := NewRoom(spec, "ABC123", t0)
		assert.ErrorIs(t, err, ErrValidation, "%+v", spec)
	}
}

func TestNewRoomTeams(t *testing.T) {
	room := newTestRoom(t, models.RoomSpec{TeamMode: true})
	require.Len(t, room.Teams, 2)
	assert.Equal(t, "Red", room.Teams[0].Name)
	assert.NotEmpty(t, room.Teams[0].ID)

	custom := newTestRoom(t, models.RoomSpec{TeamMode: true, Teams: []models.Team{{Name: "Owls"}, {Name: ""}}})
	require.Len(t, custom.Teams, 1)
	assert.Equal(t, "Owls", custom.Teams[0].Name)
}

func TestApplyJoinOrderOfChecks(t *testing.T) {
	room := newTestRoom(t, models.RoomSpec{MaxPlayers: 2})
	later := t0.Add(time.Minute)

	require.NoError(t, ApplyJoin(room, "a", "Ann", later))
	assert.Equal(t, later, room.LastActivityAt)
	assert.False(t, room.Players[1].IsHost)

	// a member re-joining a full room hears about membership first
	assert.ErrorIs(t, ApplyJoin(room, "a", "Ann", later), ErrAlreadyMember)
	assert.ErrorIs(t, ApplyJoin(room, "b", "Bob", later), ErrFull)

	room.Status = models.StatusPlaying
	assert.ErrorIs(t, ApplyJoin(room, "a", "Ann", later), ErrAlreadyMember)
	assert.ErrorIs(t, ApplyJoin(room, "b", "Bob", later), ErrNotJoinable)
	assert.ErrorIs(t, ApplyJoin(room, "b", "Bob", later), ErrInvalidTransition)

	assert.ErrorIs(t, ApplyJoin(room, "", "Bob", later), ErrValidation)
}

func TestApplyLeavePromotesEarliestJoined(t *testing.T) {
	room := newTestRoom(t, models.RoomSpec{MaxPlayers: 4, TeamMode: true})
	require.NoError(t, ApplyJoin(room, "a", "Ann", t0))
	require.NoError(t, ApplyJoin(room, "b", "Bob", t0))
	require.NoError(t, ApplySetTeam(room, "a", room.Teams[0].ID, t0))

	assert.True(t, ApplyLeave(room, "h", t0))
	assert.Equal(t, "a", room.HostID)
	assert.Equal(t, "Ann", room.HostName)
	hosts := 0
	for _, p := range room.Players {
		if p.IsHost {
			hosts++
		}
	}
	assert.Equal(t, 1, hosts)

	assert.True(t, ApplyLeave(room, "a", t0))
	assert.Empty(t, room.Teams[0].PlayerIDs)
	assert.Equal(t, "b", room.HostID)

	assert.False(t, ApplyLeave(room, "ghost", t0))
	assert.True(t, ApplyLeave(room, "b", t0))
	assert.Empty(t, room.Players)
}

func TestApplySetReady(t *testing.T) {
	room := newTestRoom(t, models.RoomSpec{})
	require.NoError(t, ApplyJoin(room, "a", "Ann", t0))

	require.NoError(t, ApplySetReady(room, "a", true, t0))
	ready, _ := room.PlayerReady("a")
	assert.True(t, ready)

	assert.ErrorIs(t, ApplySetReady(room, "ghost", true, t0), ErrNotFound)

	room.Status = models.StatusPlaying
	require.NoError(t, ApplySetReady(room, "a", false, t0))
	ready, _ = room.PlayerReady("a")
	assert.True(t, ready, "ready flags freeze once the game started")
}

func TestApplySetTeam(t *testing.T) {
	plain := newTestRoom(t, models.RoomSpec{})
	assert.ErrorIs(t, ApplySetTeam(plain, "h", "x", t0), ErrValidation)

	room := newTestRoom(t, models.RoomSpec{TeamMode: true})
	red, blue := room.Teams[0].ID, room.Teams[1].ID

	require.NoError(t, ApplySetTeam(room, "h", red, t0))
	require.NoError(t, ApplySetTeam(room, "h", blue, t0))
	assert.Empty(t, room.Teams[0].PlayerIDs)
	assert.Equal(t, []string{"h"}, room.Teams[1].PlayerIDs)
	assert.Equal(t, blue, room.Players[0].TeamID)

	require.NoError(t, ApplySetTeam(room, "h", "", t0))
	assert.Empty(t, room.Teams[1].PlayerIDs)
	assert.Empty(t, room.Players[0].TeamID)

	assert.ErrorIs(t, ApplySetTeam(room, "h", "nope", t0), ErrNotFound)
	assert.ErrorIs(t, ApplySetTeam(room, "ghost", red, t0), ErrNotFound)

	room.Status = models.StatusPlaying
	assert.ErrorIs(t, ApplySetTeam(room, "h", red, t0), ErrInvalidTransition)
}

func TestApplyStatusTransitions(t *testing.T) {
	room := newTestRoom(t, models.RoomSpec{})

	assert.ErrorIs(t, ApplyStatus(room, models.StatusFinished, t0), ErrInvalidTransition)
	assert.ErrorIs(t, ApplyStatus(room, "PAUSED", t0), ErrValidation)
	require.NoError(t, ApplyStatus(room, models.StatusPlaying, t0))
	assert.ErrorIs(t, ApplyStatus(room, models.StatusPlaying, t0), ErrInvalidTransition)
	assert.ErrorIs(t, ApplyStatus(room, models.StatusWaiting, t0), ErrInvalidTransition)
	require.NoError(t, ApplyStatus(room, models.StatusFinished, t0))
	for _, s := range []models.RoomStatus{models.StatusWaiting, models.StatusPlaying, models.StatusFinished} {
		assert.ErrorIs(t, ApplyStatus(room, s, t0), ErrInvalidTransition)
	}
}

func TestApplyStartLeavesRoomUntouchedOnError(t *testing.T) {
	room := newTestRoom(t, models.RoomSpec{})
	require.NoError(t, ApplyJoin(room, "a", "Ann", t0))
	before := room.Clone()

	assert.ErrorIs(t, ApplyStart(room, "a", t0.Add(time.Hour)), ErrAuthorization)
	assert.ErrorIs(t, ApplyStart(room, "h", t0.Add(time.Hour)), ErrNotReady)
	assert.Equal(t, before, room)

	require.NoError(t, ApplySetReady(room, "a", true, t0))
	require.NoError(t, ApplyStart(room, "h", t0))
	assert.Equal(t, models.StatusPlaying, room.Status)
	assert.ErrorIs(t, ApplyStart(room, "h", t0), ErrInvalidTransition)
}

func TestIsStale(t *testing.T) {
	room := newTestRoom(t, models.RoomSpec{})
	assert.False(t, IsStale(room, t0.Add(4*time.Minute), 5*time.Minute))
	assert.True(t, IsStale(room, t0.Add(6*time.Minute), 5*time.Minute))

	ApplyActivity(room, "h", t0.Add(6*time.Minute))
	assert.False(t, IsStale(room, t0.Add(7*time.Minute), 5*time.Minute))
	assert.Equal(t, t0.Add(6*time.Minute), room.Players[0].LastSeenAt)

	ApplyLeave(room, "h", t0)
	assert.True(t, IsStale(room, t0, 5*time.Minute))
}

func TestGroupRules(t *testing.T) {
	g, err := NewGroup(models.GroupSpec{Name: " Crew ", AdminID: "adm", AdminName: "Ada"}, "GRP001", t0)
	require.NoError(t, err)
	assert.Equal(t, "Crew", g.Name)
	assert.EqualValues(t, 1, g.Version)

	changed, err := ApplyGroupJoin(g, "adm", "Ada", t0)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, g.Members)

	changed, err = ApplyGroupJoin(g, "m1", "Max", t0)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, _ = ApplyGroupJoin(g, "m1", "Max", t0)
	assert.False(t, changed)
	assert.EqualValues(t, 2, g.Version)

	_, err = ApplyGroupLeave(g, "adm", t0)
	assert.ErrorIs(t, err, ErrValidation)
	changed, err = ApplyGroupLeave(g, "m1", t0)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, _ = ApplyGroupLeave(g, "m1", t0)
	assert.False(t, changed)

	desc := "weekly"
	assert.ErrorIs(t, ApplyGroupUpdate(g, "m1", models.GroupUpdate{Description: &desc}, t0), ErrAuthorization)
	empty := "  "
	assert.ErrorIs(t, ApplyGroupUpdate(g, "adm", models.GroupUpdate{Name: &empty}, t0), ErrValidation)
	require.NoError(t, ApplyGroupUpdate(g, "adm", models.GroupUpdate{Description: &desc}, t0))
	assert.Equal(t, "weekly", g.Description)

	_, err = NewGroup(models.GroupSpec{Name: "", AdminID: "adm", AdminName: "Ada"}, "GRP002", t0)
	assert.ErrorIs(t, err, ErrValidation)
}
