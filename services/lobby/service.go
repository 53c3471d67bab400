package lobby

import (
	"Playroom/models"
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Service is the room lifecycle controller. It validates user actions, applies them
// through a Store and announces committed transitions to a Publisher. The same Service
// runs on the server over the Postgres store and in the playroom CLI over the fallback
// store, where the publisher is a no-op.
type Service struct {
	store     Store
	publisher Publisher
}

// NewService wires a store and an optional publisher
func NewService(store Store, publisher Publisher) *Service {
	if store == nil {
		panic("Store cannot be nil for lobby.Service")
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Service{store: store, publisher: publisher}
}

// Store exposes the backing store, used by pollers that read snapshots directly
func (s *Service) Store() Store {
	return s.store
}

func (s *Service) CreateRoom(ctx context.Context, spec models.RoomSpec) (*models.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"host_id": spec.HostID, "game_type": spec.GameType})
	room, err := s.store.CreateRoom(ctx, spec)
	if err != nil {
		logCtx.WithError(err).Warn("[ROOM-CREATE-ERROR] could not create room")
		return nil, err
	}
	logCtx.WithFields(logrus.Fields{"room_id": room.ID, "code": room.Code}).Info("[ROOM-CREATE] room created")
	s.publisher.Publish(ctx, Event{Type: EventRoomCreated, RoomID: room.ID, RoomCode: room.Code, GameType: room.GameType, UserID: room.HostID, Room: room})
	return room, nil
}

func (s *Service) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	if strings.TrimSpace(roomID) == "" {
		return nil, validationError("room id is required")
	}
	return s.store.GetRoom(ctx, roomID)
}

func (s *Service) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	c, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	return s.store.GetRoomByCode(ctx, c)
}

func (s *Service) ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error) {
	filter.GameType = strings.ToLower(strings.TrimSpace(filter.GameType))
	filter.Status = models.RoomStatus(strings.ToUpper(strings.TrimSpace(string(filter.Status))))
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationError("unknown status %q", filter.Status)
	}
	return s.store.ListRooms(ctx, filter)
}

// Join adds userID to the room identified by code
func (s *Service) Join(ctx context.Context, code, userID, userName string) (*models.Room, error) {
	c, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	logCtx := logrus.WithFields(logrus.Fields{"code": c, "user_id": userID})
	room, err := s.store.JoinRoom(ctx, c, userID, userName)
	if err != nil {
		logCtx.WithError(err).Info("[JOIN-ERROR] join rejected")
		return nil, err
	}
	logCtx.WithField("players", len(room.Players)).Info("[JOIN] player joined")
	s.publisher.Publish(ctx, Event{Type: EventPlayerJoined, RoomID: room.ID, RoomCode: room.Code, GameType: room.GameType, UserID: userID})
	return room, nil
}

// Leave removes userID from the room. Leaving a room you are not in is a no-op.
func (s *Service) Leave(ctx context.Context, roomID, userID string) error {
	if err := s.store.LeaveRoom(ctx, roomID, userID); err != nil {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).WithError(err).Warn("[LEAVE-ERROR] leave failed")
		return err
	}
	logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).Info("[LEAVE] player left")
	s.publisher.Publish(ctx, Event{Type: EventPlayerLeft, RoomID: roomID, UserID: userID})
	return nil
}

func (s *Service) SetReady(ctx context.Context, roomID, userID string, ready bool) (*models.Room, error) {
	return s.store.SetPlayerReady(ctx, roomID, userID, ready)
}

func (s *Service) ChooseTeam(ctx context.Context, roomID, userID, teamID string) (*models.Room, error) {
	return s.store.SetPlayerTeam(ctx, roomID, userID, teamID)
}

// Start moves the room to PLAYING. Only the host may do it, and only once the ready
// gate is open; the check and the transition happen atomically in the store.
func (s *Service) Start(ctx context.Context, roomID, callerID string) (*models.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "caller_id": callerID})
	room, err := s.store.StartRoom(ctx, roomID, callerID)
	if err != nil {
		logCtx.WithError(err).Info("[START-ERROR] start rejected")
		return nil, err
	}
	logCtx.WithField("code", room.Code).Info("[START] game started")
	s.publisher.Publish(ctx, Event{Type: EventGameStarted, RoomID: room.ID, RoomCode: room.Code, GameType: room.GameType, UserID: callerID, Room: room})
	return room, nil
}

// Finish is called by the game module when a game ends
func (s *Service) Finish(ctx context.Context, roomID, callerID string) (*models.Room, error) {
	current, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !current.HasPlayer(callerID) {
		return nil, fmt.Errorf("%w: %s is not in room %s", ErrAuthorization, callerID, current.Code)
	}
	room, err := s.store.UpdateRoomStatus(ctx, roomID, models.StatusFinished)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"room_id": roomID, "code": room.Code}).Info("[FINISH] game finished")
	s.publisher.Publish(ctx, Event{Type: EventGameFinished, RoomID: room.ID, RoomCode: room.Code, GameType: room.GameType, UserID: callerID, Room: room})
	return room, nil
}

// Heartbeat records activity. Failures are logged and swallowed.
func (s *Service) Heartbeat(ctx context.Context, roomID, userID string) {
	if err := s.store.UpdatePlayerActivity(ctx, roomID, userID); err != nil {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).WithError(err).Debug("[HEARTBEAT] heartbeat dropped")
	}
}

// Cleanup deletes stale rooms and returns how many were removed
func (s *Service) Cleanup(ctx context.Context) (int, error) {
	n, err := s.store.CleanupStaleRooms(ctx)
	if err != nil {
		logrus.WithError(err).Error("[CLEANUP-ERROR] stale room cleanup failed")
		return n, err
	}
	if n > 0 {
		logrus.WithField("deleted", n).Info("[CLEANUP] stale rooms deleted")
		s.publisher.Publish(ctx, Event{Type: EventRoomsCleaned, Count: n})
	}
	return n, nil
}

func (s *Service) CreateGroup(ctx context.Context, spec models.GroupSpec) (*models.Group, error) {
	g, err := s.store.CreateGroup(ctx, spec)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"group_id": g.ID, "code": g.Code, "admin_id": g.AdminID}).Info("[GROUP-CREATE] group created")
	return g, nil
}

func (s *Service) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

func (s *Service) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	c, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	return s.store.GetGroupByCode(ctx, c)
}

func (s *Service) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	return s.store.ListGroups(ctx, userID)
}

// JoinGroup is idempotent: a user already in the group gets it back unchanged
func (s *Service) JoinGroup(ctx context.Context, code, userID, userName string) (*models.Group, error) {
	c, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	return s.store.JoinGroup(ctx, c, userID, userName)
}

func (s *Service) LeaveGroup(ctx context.Context, groupID, userID string) error {
	return s.store.LeaveGroup(ctx, groupID, userID)
}

func (s *Service) UpdateGroup(ctx context.Context, groupID, callerID string, upd models.GroupUpdate) (*models.Group, error) {
	return s.store.UpdateGroup(ctx, groupID, callerID, upd)
}

func (s *Service) DeleteGroup(ctx context.Context, groupID, callerID string) error {
	if err := s.store.DeleteGroup(ctx, groupID, callerID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"group_id": groupID, "admin_id": callerID}).Info("[GROUP-DELETE] group deleted")
	return nil
}
