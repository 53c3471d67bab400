package local

import (
	"Playroom/models"
	"Playroom/services/lobby"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoom(t *testing.T, s *Store, maxPlayers int) *models.Room {
	t.Helper()
	room, err := s.CreateRoom(context.Background(), models.RoomSpec{
		GameType:   "pacman",
		HostID:     "u1",
		HostName:   "Ana",
		MaxPlayers: maxPlayers,
		MinPlayers: min(2, maxPlayers),
	})
	require.NoError(t, err)
	return room
}

func TestCreateRoom(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	room := newRoom(t, s, 4)
	assert.Len(t, room.Code, 6)
	assert.Equal(t, models.StatusWaiting, room.Status)
	require.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsHost)
	assert.Equal(t, "u1", room.HostID)

	byCode, err := s.GetRoomByCode(context.Background(), room.Code)
	require.NoError(t, err)
	assert.Equal(t, room.ID, byCode.ID)

	_, err = s.GetRoomByCode(context.Background(), "ZZZZZZ")
	assert.ErrorIs(t, err, lobby.ErrNotFound)
}

func TestCreateRoomValidation(t *testing.T) {
	s, _ := Open("")
	defer s.Close()

	_, err := s.CreateRoom(context.Background(), models.RoomSpec{GameType: "chess", HostID: "u1", HostName: "Ana"})
	assert.ErrorIs(t, err, lobby.ErrValidation)

	_, err = s.CreateRoom(context.Background(), models.RoomSpec{GameType: "maze", HostID: "u1", HostName: "Ana", MaxPlayers: 2, MinPlayers: 3})
	assert.ErrorIs(t, err, lobby.ErrValidation)
}

func TestJoinErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := Open("")
	defer s.Close()
	room := newRoom(t, s, 2)

	_, err := s.JoinRoom(ctx, room.Code, "u1", "Ana")
	assert.ErrorIs(t, err, lobby.ErrAlreadyMember)
	assert.ErrorIs(t, err, lobby.ErrConflict)

	_, err = s.JoinRoom(ctx, room.Code, "u2", "Bo")
	require.NoError(t, err)

	_, err = s.JoinRoom(ctx, room.Code, "u3", "Cy")
	assert.ErrorIs(t, err, lobby.ErrFull)

	_, err = s.JoinRoom(ctx, "NOPE00", "u3", "Cy")
	assert.ErrorIs(t, err, lobby.ErrNotFound)
}

func TestConcurrentJoinsOnLastSlot(t *testing.T) {
	ctx := context.Background()
	s, _ := Open("")
	defer s.Close()
	room := newRoom(t, s, 2)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"u2", "u3"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = s.JoinRoom(ctx, room.Code, id, "player-"+id)
		}(i, id)
	}
	wg.Wait()

	successes, full := 0, 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, lobby.ErrFull)
		full++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, full)

	got, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, got.Players, 2)
}

func TestStartAndJoinAfterStart(t *testing.T) {
	ctx := context.Background()
	s, _ := Open("")
	defer s.Close()
	room := newRoom(t, s, 4)

	_, err := s.JoinRoom(ctx, room.Code, "u2", "Bo")
	require.NoError(t, err)

	_, err = s.StartRoom(ctx, room.ID, "u1")
	assert.ErrorIs(t, err, lobby.ErrNotReady)

	_, err = s.SetPlayerReady(ctx, room.ID, "u2", true)
	require.NoError(t, err)

	_, err = s.StartRoom(ctx, room.ID, "u2")
	assert.ErrorIs(t, err, lobby.ErrAuthorization)

	started, err := s.StartRoom(ctx, room.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlaying, started.Status)

	_, err = s.JoinRoom(ctx, room.Code, "u3", "Cy")
	assert.ErrorIs(t, err, lobby.ErrNotJoinable)

	_, err = s.UpdateRoomStatus(ctx, room.ID, models.StatusWaiting)
	assert.ErrorIs(t, err, lobby.ErrInvalidTransition)

	finished, err := s.UpdateRoomStatus(ctx, room.ID, models.StatusFinished)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, finished.Status)

	_, err = s.UpdateRoomStatus(ctx, room.ID, models.StatusPlaying)
	assert.ErrorIs(t, err, lobby.ErrInvalidTransition)
}

func TestLeavePromotesHost(t *testing.T) {
	ctx := context.Background()
	s, _ := Open("")
	defer s.Close()
	room := newRoom(t, s, 4)
	_, err := s.JoinRoom(ctx, room.Code, "u2", "Bo")
	require.NoError(t, err)

	require.NoError(t, s.LeaveRoom(ctx, room.ID, "u1"))
	got, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.HostID)
	require.Len(t, got.Players, 1)
	assert.True(t, got.Players[0].IsHost)

	// leaving twice is a no-op
	require.NoError(t, s.LeaveRoom(ctx, room.ID, "u1"))

	require.NoError(t, s.LeaveRoom(ctx, room.ID, "u2"))
	empty, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Players)
}

func TestCleanupStaleRooms(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, _ := Open("", WithClock(func() time.Time { return now }), WithStaleAfter(5*time.Minute))
	defer s.Close()

	active := newRoom(t, s, 4)
	idle := newRoom(t, s, 4)
	empty := newRoom(t, s, 4)
	require.NoError(t, s.LeaveRoom(ctx, empty.ID, "u1"))

	now = now.Add(4 * time.Minute)
	require.NoError(t, s.UpdatePlayerActivity(ctx, active.ID, "u1"))
	now = now.Add(2 * time.Minute)

	n, err := s.CleanupStaleRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.GetRoom(ctx, active.ID)
	assert.NoError(t, err)
	_, err = s.GetRoom(ctx, idle.ID)
	assert.ErrorIs(t, err, lobby.ErrNotFound)
	_, err = s.GetRoom(ctx, empty.ID)
	assert.ErrorIs(t, err, lobby.ErrNotFound)
}

func TestCodesAreUnique(t *testing.T) {
	s, _ := Open("")
	defer s.Close()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		room := newRoom(t, s, 4)
		require.False(t, seen[room.Code], "duplicate code %s", room.Code)
		seen[room.Code] = true
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache", "playroom.json")

	s, err := Open(path)
	require.NoError(t, err)
	room := newRoom(t, s, 4)
	group, err := s.CreateGroup(ctx, models.GroupSpec{Name: "Friday", AdminID: "u1", AdminName: "Ana"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, ErrClosed)

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetRoomByCode(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)
	assert.Equal(t, "Ana", got.Players[0].Name)

	g, err := reopened.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Friday", g.Name)
}

func TestPutRoomReplacesReusedCode(t *testing.T) {
	s, _ := Open("")
	defer s.Close()
	old := newRoom(t, s, 4)

	fresh := old.Clone()
	fresh.ID = "another-id"
	require.NoError(t, s.PutRoom(fresh))

	_, err := s.GetRoom(context.Background(), old.ID)
	assert.ErrorIs(t, err, lobby.ErrNotFound)
	got, err := s.GetRoomByCode(context.Background(), old.Code)
	require.NoError(t, err)
	assert.Equal(t, "another-id", got.ID)
}

func TestGroups(t *testing.T) {
	ctx := context.Background()
	s, _ := Open("")
	defer s.Close()

	g, err := s.CreateGroup(ctx, models.GroupSpec{Name: "Team", AdminID: "admin", AdminName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), g.Version)

	joined, err := s.JoinGroup(ctx, g.Code, "m1", "Max")
	require.NoError(t, err)
	assert.Len(t, joined.Members, 1)
	assert.Equal(t, int64(2), joined.Version)

	again, err := s.JoinGroup(ctx, g.Code, "m1", "Max")
	require.NoError(t, err)
	assert.Len(t, again.Members, 1)
	assert.Equal(t, int64(2), again.Version)

	admin, err := s.JoinGroup(ctx, g.Code, "admin", "Ada")
	require.NoError(t, err)
	assert.Len(t, admin.Members, 1)

	assert.ErrorIs(t, s.LeaveGroup(ctx, g.ID, "admin"), lobby.ErrValidation)

	name := "Renamed"
	_, err = s.UpdateGroup(ctx, g.ID, "m1", models.GroupUpdate{Name: &name})
	assert.ErrorIs(t, err, lobby.ErrAuthorization)
	updated, err := s.UpdateGroup(ctx, g.ID, "admin", models.GroupUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	list, err := s.ListGroups(ctx, "m1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.LeaveGroup(ctx, g.ID, "m1"))
	list, err = s.ListGroups(ctx, "m1")
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, s.DeleteGroup(ctx, g.ID, "m1"), lobby.ErrAuthorization)
	require.NoError(t, s.DeleteGroup(ctx, g.ID, "admin"))
	_, err = s.GetGroup(ctx, g.ID)
	assert.ErrorIs(t, err, lobby.ErrNotFound)
}
