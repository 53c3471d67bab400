package fallback

import (
	"Playroom/models"
	"Playroom/services/local"
	"Playroom/services/lobby"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyRemote is a remote store that can be switched off
type flakyRemote struct {
	*local.Store
	down bool
}

func (f *flakyRemote) unavailable() error {
	return fmt.Errorf("%w: connection refused", lobby.ErrUnavailable)
}

func (f *flakyRemote) CreateRoom(ctx context.Context, spec models.RoomSpec) (*models.Room, error) {
	if f.down {
		return nil, f.unavailable()
	}
	return f.Store.CreateRoom(ctx, spec)
}

func (f *flakyRemote) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	if f.down {
		return nil, f.unavailable()
	}
	return f.Store.GetRoom(ctx, roomID)
}

func (f *flakyRemote) JoinRoom(ctx context.Context, code, userID, userName string) (*models.Room, error) {
	if f.down {
		return nil, f.unavailable()
	}
	return f.Store.JoinRoom(ctx, code, userID, userName)
}

func (f *flakyRemote) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	if f.down {
		return nil, f.unavailable()
	}
	return f.Store.ListGroups(ctx, userID)
}

func setup(t *testing.T) (*Store, *flakyRemote, *local.Store) {
	t.Helper()
	remoteStore, err := local.Open("")
	require.NoError(t, err)
	cache, err := local.Open("")
	require.NoError(t, err)
	t.Cleanup(func() {
		remoteStore.Close()
		cache.Close()
	})
	remote := &flakyRemote{Store: remoteStore}
	return New(remote, cache), remote, cache
}

func TestWriteThroughAndOfflineRead(t *testing.T) {
	ctx := context.Background()
	store, remote, cache := setup(t)

	room, err := store.CreateRoom(ctx, models.RoomSpec{GameType: "maze", HostID: "u1", HostName: "Ana"})
	require.NoError(t, err)
	assert.False(t, store.Offline())

	cached, err := cache.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.Code, cached.Code)

	remote.down = true
	got, err := store.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)
	assert.True(t, store.Offline())

	joined, err := store.JoinRoom(ctx, room.Code, "u2", "Bo")
	require.NoError(t, err)
	assert.Len(t, joined.Players, 2)

	// the remote never saw the offline join
	remote.down = false
	authoritative, err := store.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, authoritative.Players, 1)
	assert.False(t, store.Offline())
}

func TestRemoteErrorsAreNotMasked(t *testing.T) {
	ctx := context.Background()
	store, _, _ := setup(t)

	room, err := store.CreateRoom(ctx, models.RoomSpec{GameType: "tetris", HostID: "u1", HostName: "Ana", MaxPlayers: 1, MinPlayers: 1})
	require.NoError(t, err)

	_, err = store.JoinRoom(ctx, room.Code, "u2", "Bo")
	assert.ErrorIs(t, err, lobby.ErrFull)
	assert.False(t, store.Offline())
}

func TestCreateOffline(t *testing.T) {
	ctx := context.Background()
	store, remote, cache := setup(t)
	remote.down = true

	room, err := store.CreateRoom(ctx, models.RoomSpec{GameType: "flappy", HostID: "u1", HostName: "Ana"})
	require.NoError(t, err)
	_, err = cache.GetRoomByCode(ctx, room.Code)
	assert.NoError(t, err)
	_, err = remote.Store.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, lobby.ErrNotFound)
}

func TestListGroupsMergesWithCache(t *testing.T) {
	ctx := context.Background()
	store, remote, cache := setup(t)
	created := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	lagging := &models.Group{ID: "g1", Name: "Crew", Code: "CREW01", AdminID: "u1", AdminName: "Ana",
		Members: []models.GroupMember{{ID: "u2", Name: "Bo"}}, CreatedAt: created}
	require.NoError(t, remote.PutGroup(lagging))

	fresher := lagging.Clone()
	fresher.Members = append(fresher.Members, models.GroupMember{ID: "u3", Name: "Cy"})
	require.NoError(t, cache.PutGroup(fresher))

	other := &models.Group{ID: "g2", Name: "Solo", Code: "SOLO01", AdminID: "u1", AdminName: "Ana", CreatedAt: created.Add(time.Hour)}
	require.NoError(t, remote.PutGroup(other))

	groups, err := store.ListGroups(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "g2", groups[0].ID)
	assert.Equal(t, "g1", groups[1].ID)
	assert.Len(t, groups[1].Members, 2)

	remote.down = true
	offline, err := store.ListGroups(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, offline, 2)
	assert.True(t, store.Offline())
}
