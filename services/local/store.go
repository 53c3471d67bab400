package local

import (
	lobby_constants "Playroom/constants/lobby"
	"Playroom/models"
	"Playroom/services/lobby"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var _ lobby.Store = (*Store)(nil)

// ErrClosed is returned by every operation after Close
var ErrClosed = errors.New("local store is closed")

// Store is the per-client fallback cache. It honours the same contract as the remote
// store (lobby.Store) but only sees this client's writes. State lives in memory and, when
// a path is given, is written to a JSON file after every mutation so it survives restarts.
// One mutex serialises all operations, which makes every mutation atomic per room.
type Store struct {
	mu         sync.Mutex
	path       string
	rooms      map[string]*models.Room
	groups     map[string]*models.Group
	now        func() time.Time
	staleAfter time.Duration
	closed     bool
}

// Option customises a Store
type Option func(*Store)

// WithClock replaces time.Now, used by tests driving cleanup
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithStaleAfter sets the inactivity window used by CleanupStaleRooms
func WithStaleAfter(d time.Duration) Option {
	return func(s *Store) { s.staleAfter = d }
}

type fileState struct {
	Rooms  []*models.Room  `json:"rooms"`
	Groups []*models.Group `json:"groups"`
}

// Open loads the cache from path, creating it on first use. An empty path keeps the
// cache in memory only.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:       path,
		rooms:      make(map[string]*models.Room),
		groups:     make(map[string]*models.Group),
		now:        time.Now,
		staleAfter: lobby_constants.STALE_ROOM_AFTER,
	}
	for _, opt := range opts {
		opt(s)
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading local cache %s: %w", path, err)
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("error unmarshaling local cache %s: %w", path, err)
	}
	for _, r := range state.Rooms {
		s.rooms[r.ID] = r
	}
	for _, g := range state.Groups {
		s.groups[g.ID] = g
	}
	logrus.WithFields(logrus.Fields{"path": path, "rooms": len(s.rooms), "groups": len(s.groups)}).Debug("[LOCAL] cache loaded")
	return s, nil
}

// Close flushes the cache and makes further operations fail with ErrClosed
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	err := s.flushLocked()
	s.closed = true
	return err
}

func (s *Store) flushLocked() error {
	if s.path == "" {
		return nil
	}
	state := fileState{Rooms: make([]*models.Room, 0, len(s.rooms)), Groups: make([]*models.Group, 0, len(s.groups))}
	for _, r := range s.rooms {
		state.Rooms = append(state.Rooms, r)
	}
	for _, g := range s.groups {
		state.Groups = append(state.Groups, g)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("error marshaling local cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("error creating cache directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("error writing local cache: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) lock() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	return nil
}

func (s *Store) roomByCodeLocked(code string) *models.Room {
	for _, r := range s.rooms {
		if r.Code == code {
			return r
		}
	}
	return nil
}

// mutateRoomLocked runs fn on a copy of the room and stores the copy only if fn succeeds
func (s *Store) mutateRoomLocked(room *models.Room, fn func(*models.Room) error) (*models.Room, error) {
	next := room.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.rooms[next.ID] = next
	if err := s.flushLocked(); err != nil {
		logrus.WithError(err).Warn("[LOCAL] could not persist cache")
	}
	return next.Clone(), nil
}

func (s *Store) mutateRoom(roomID string, fn func(*models.Room) error) (*models.Room, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: room %s", lobby.ErrNotFound, roomID)
	}
	return s.mutateRoomLocked(room, fn)
}

func (s *Store) CreateRoom(ctx context.Context, spec models.RoomSpec) (*models.Room, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var created *models.Room
	_, err := lobby.InsertWithUniqueCode(ctx, func(code string) error {
		if s.roomByCodeLocked(code) != nil {
			return lobby.ErrStaleWrite
		}
		room, err := lobby.NewRoom(spec, code, s.now())
		if err != nil {
			return err
		}
		s.rooms[room.ID] = room
		created = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.flushLocked(); err != nil {
		logrus.WithError(err).Warn("[LOCAL] could not persist cache")
	}
	return created.Clone(), nil
}

func (s *Store) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: room %s", lobby.ErrNotFound, roomID)
	}
	return room.Clone(), nil
}

func (s *Store) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	room := s.roomByCodeLocked(code)
	if room == nil {
		return nil, fmt.Errorf("%w: room %s", lobby.ErrNotFound, code)
	}
	return room.Clone(), nil
}

func (s *Store) ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	status := filter.Status
	if status == "" {
		status = models.StatusWaiting
	}
	out := []models.Room{}
	for _, r := range s.rooms {
		if r.IsPrivate || r.Status != status {
			continue
		}
		if filter.GameType != "" && r.GameType != filter.GameType {
			continue
		}
		out = append(out, *r.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) JoinRoom(ctx context.Context, code, userID, userName string) (*models.Room, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	room := s.roomByCodeLocked(code)
	if room == nil {
		return nil, fmt.Errorf("%w: room %s", lobby.ErrNotFound, code)
	}
	now := s.now()
	return s.mutateRoomLocked(room, func(r *models.Room) error {
		return lobby.ApplyJoin(r, userID, userName, now)
	})
}

func (s *Store) LeaveRoom(ctx context.Context, roomID, userID string) error {
	now := s.now()
	_, err := s.mutateRoom(roomID, func(r *models.Room) error {
		lobby.ApplyLeave(r, userID, now)
		return nil
	})
	return err
}

func (s *Store) SetPlayerReady(ctx context.Context, roomID, userID string, ready bool) (*models.Room, error) {
	now := s.now()
	return s.mutateRoom(roomID, func(r *models.Room) error {
		return lobby.ApplySetReady(r, userID, ready, now)
	})
}

func (s *Store) SetPlayerTeam(ctx context.Context, roomID, userID, teamID string) (*models.Room, error) {
	now := s.now()
	return s.mutateRoom(roomID, func(r *models.Room) error {
		return lobby.ApplySetTeam(r, userID, teamID, now)
	})
}

func (s *Store) UpdateRoomStatus(ctx context.Context, roomID string, status models.RoomStatus) (*models.Room, error) {
	now := s.now()
	return s.mutateRoom(roomID, func(r *models.Room) error {
		return lobby.ApplyStatus(r, status, now)
	})
}

func (s *Store) StartRoom(ctx context.Context, roomID, callerID string) (*models.Room, error) {
	now := s.now()
	return s.mutateRoom(roomID, func(r *models.Room) error {
		return lobby.ApplyStart(r, callerID, now)
	})
}

func (s *Store) UpdatePlayerActivity(ctx context.Context, roomID, userID string) error {
	now := s.now()
	_, err := s.mutateRoom(roomID, func(r *models.Room) error {
		lobby.ApplyActivity(r, userID, now)
		return nil
	})
	return err
}

func (s *Store) CleanupStaleRooms(ctx context.Context) (int, error) {
	if err := s.lock(); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()
	now := s.now()
	deleted := 0
	for id, r := range s.rooms {
		if lobby.IsStale(r, now, s.staleAfter) {
			delete(s.rooms, id)
			deleted++
		}
	}
	if deleted > 0 {
		if err := s.flushLocked(); err != nil {
			logrus.WithError(err).Warn("[LOCAL] could not persist cache")
		}
	}
	return deleted, nil
}

// PutRoom caches a room fetched from the authoritative store. A cached room with the
// same code but another id is a deleted room whose code was reused, so it is dropped.
func (s *Store) PutRoom(room *models.Room) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if old := s.roomByCodeLocked(room.Code); old != nil && old.ID != room.ID {
		delete(s.rooms, old.ID)
	}
	s.rooms[room.ID] = room.Clone()
	return s.flushLocked()
}

// PutGroup caches a group fetched from the authoritative store
func (s *Store) PutGroup(group *models.Group) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.groups[group.ID] = group.Clone()
	return s.flushLocked()
}

// RemoveGroup drops a cached group
func (s *Store) RemoveGroup(groupID string) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	delete(s.groups, groupID)
	return s.flushLocked()
}
