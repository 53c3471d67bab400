package fallback

import (
	"Playroom/models"
	"Playroom/services/local"
	"Playroom/services/lobby"
	"context"
	"errors"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var _ lobby.Store = (*Store)(nil)

// Store sends every operation to the remote store and, when the remote reports
// lobby.ErrUnavailable, runs the same operation on the local cache instead. Successful
// remote results are written through to the cache so offline reads see them.
type Store struct {
	remote  lobby.Store
	cache   *local.Store
	offline atomic.Bool
}

func New(remote lobby.Store, cache *local.Store) *Store {
	return &Store{remote: remote, cache: cache}
}

// Offline reports whether the last remote call failed as unavailable
func (s *Store) Offline() bool {
	return s.offline.Load()
}

func (s *Store) markOnline() {
	if s.offline.Swap(false) {
		logrus.Info("[FALLBACK] remote store reachable again")
	}
}

func (s *Store) markOffline(op string, err error) {
	if !s.offline.Swap(true) {
		logrus.WithField("op", op).WithError(err).Warn("[FALLBACK] remote store unavailable, using local cache")
	}
}

// run calls remote and falls back to offline when remote is unavailable. cache is
// called with successful remote results.
func run[T any](s *Store, op string, remote, offline func() (T, error), cache func(T)) (T, error) {
	v, err := remote()
	if err == nil {
		s.markOnline()
		if cache != nil {
			cache(v)
		}
		return v, nil
	}
	if !errors.Is(err, lobby.ErrUnavailable) {
		return v, err
	}
	s.markOffline(op, err)
	return offline()
}

func (s *Store) cacheRoom(room *models.Room) {
	if err := s.cache.PutRoom(room); err != nil {
		logrus.WithError(err).Debug("[FALLBACK] could not cache room")
	}
}

func (s *Store) cacheGroup(g *models.Group) {
	if err := s.cache.PutGroup(g); err != nil {
		logrus.WithError(err).Debug("[FALLBACK] could not cache group")
	}
}

func (s *Store) CreateRoom(ctx context.Context, spec models.RoomSpec) (*models.Room, error) {
	return run(s, "create_room",
		func() (*models.Room, error) { return s.remote.CreateRoom(ctx, spec) },
		func() (*models.Room, error) { return s.cache.CreateRoom(ctx, spec) },
		s.cacheRoom)
}

func (s *Store) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	return run(s, "get_room",
		func() (*models.Room, error) { return s.remote.GetRoom(ctx, roomID) },
		func() (*models.Room, error) { return s.cache.GetRoom(ctx, roomID) },
		s.cacheRoom)
}

func (s *Store) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	return run(s, "get_room_by_code",
		func() (*models.Room, error) { return s.remote.GetRoomByCode(ctx, code) },
		func() (*models.Room, error) { return s.cache.GetRoomByCode(ctx, code) },
		s.cacheRoom)
}

func (s *Store) ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error) {
	return run(s, "list_rooms",
		func() ([]models.Room, error) { return s.remote.ListRooms(ctx, filter) },
		func() ([]models.Room, error) { return s.cache.ListRooms(ctx, filter) },
		nil)
}

func (s *Store) JoinRoom(ctx context.Context, code, userID, userName string) (*models.Room, error) {
	return run(s, "join_room",
		func() (*models.Room, error) { return s.remote.JoinRoom(ctx, code, userID, userName) },
		func() (*models.Room, error) { return s.cache.JoinRoom(ctx, code, userID, userName) },
		s.cacheRoom)
}

func (s *Store) LeaveRoom(ctx context.Context, roomID, userID string) error {
	_, err := run(s, "leave_room",
		func() (struct{}, error) { return struct{}{}, s.remote.LeaveRoom(ctx, roomID, userID) },
		func() (struct{}, error) { return struct{}{}, s.cache.LeaveRoom(ctx, roomID, userID) },
		func(struct{}) {
			// keep the cached copy in line; it may not hold the room at all
			_ = s.cache.LeaveRoom(ctx, roomID, userID)
		})
	return err
}

func (s *Store) SetPlayerReady(ctx context.Context, roomID, userID string, ready bool) (*models.Room, error) {
	return run(s, "set_ready",
		func() (*models.Room, error) { return s.remote.SetPlayerReady(ctx, roomID, userID, ready) },
		func() (*models.Room, error) { return s.cache.SetPlayerReady(ctx, roomID, userID, ready) },
		s.cacheRoom)
}

func (s *Store) SetPlayerTeam(ctx context.Context, roomID, userID, teamID string) (*models.Room, error) {
	return run(s, "set_team",
		func() (*models.Room, error) { return s.remote.SetPlayerTeam(ctx, roomID, userID, teamID) },
		func() (*models.Room, error) { return s.cache.SetPlayerTeam(ctx, roomID, userID, teamID) },
		s.cacheRoom)
}

func (s *Store) UpdateRoomStatus(ctx context.Context, roomID string, status models.RoomStatus) (*models.Room, error) {
	return run(s, "update_status",
		func() (*models.Room, error) { return s.remote.UpdateRoomStatus(ctx, roomID, status) },
		func() (*models.Room, error) { return s.cache.UpdateRoomStatus(ctx, roomID, status) },
		s.cacheRoom)
}

func (s *Store) StartRoom(ctx context.Context, roomID, callerID string) (*models.Room, error) {
	return run(s, "start_room",
		func() (*models.Room, error) { return s.remote.StartRoom(ctx, roomID, callerID) },
		func() (*models.Room, error) { return s.cache.StartRoom(ctx, roomID, callerID) },
		s.cacheRoom)
}

func (s *Store) UpdatePlayerActivity(ctx context.Context, roomID, userID string) error {
	_, err := run(s, "heartbeat",
		func() (struct{}, error) { return struct{}{}, s.remote.UpdatePlayerActivity(ctx, roomID, userID) },
		func() (struct{}, error) { return struct{}{}, s.cache.UpdatePlayerActivity(ctx, roomID, userID) },
		nil)
	return err
}

// CleanupStaleRooms cleans the local cache and asks the remote to do the same
func (s *Store) CleanupStaleRooms(ctx context.Context) (int, error) {
	localCount, err := s.cache.CleanupStaleRooms(ctx)
	if err != nil {
		return 0, err
	}
	remoteCount, err := s.remote.CleanupStaleRooms(ctx)
	if err != nil && !errors.Is(err, lobby.ErrUnavailable) {
		return localCount, err
	}
	return localCount + remoteCount, nil
}
