package poller

import (
	lobby_constants "Playroom/constants/lobby"
	"Playroom/models"
	"Playroom/services/lobby"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ForRoom builds a poller that watches roomID on behalf of selfID and heartbeats every tick
func ForRoom(store lobby.RoomStore, roomID, selfID string, initial *models.Room, onEvent func(Event[models.Room])) *Poller[models.Room] {
	cfg := Config[models.Room]{
		Fetch: func(ctx context.Context) (models.Room, error) {
			room, err := store.GetRoom(ctx, roomID)
			if err != nil {
				return models.Room{}, err
			}
			return *room, nil
		},
		Heartbeat: func(ctx context.Context) error {
			return store.UpdatePlayerActivity(ctx, roomID, selfID)
		},
		Interval: lobby_constants.ROOM_POLL_INTERVAL,
		SelfID:   selfID,
		OnEvent:  onEvent,
	}
	if initial != nil {
		snap := *initial.Clone()
		cfg.Initial = &snap
	}
	return New(cfg)
}

// ForGroup builds a poller for a group roster. A nil initial makes the first fetch the baseline.
func ForGroup(store lobby.GroupStore, groupID, selfID string, initial *models.Group, onEvent func(Event[models.Group])) *Poller[models.Group] {
	cfg := Config[models.Group]{
		Fetch: func(ctx context.Context) (models.Group, error) {
			g, err := store.GetGroup(ctx, groupID)
			if err != nil {
				return models.Group{}, err
			}
			return *g, nil
		},
		Interval: lobby_constants.GROUP_POLL_INTERVAL,
		SelfID:   selfID,
		OnEvent:  onEvent,
	}
	if initial != nil {
		snap := *initial.Clone()
		cfg.Initial = &snap
	}
	return New(cfg)
}

// Session ties a room poller to the caller's membership. Closing it stops polling and
// leaves the room.
type Session struct {
	*Poller[models.Room]
	store  lobby.RoomStore
	roomID string
	userID string
	once   sync.Once
}

// Watch starts polling room for userID
func Watch(ctx context.Context, store lobby.RoomStore, room *models.Room, userID string, onEvent func(Event[models.Room])) *Session {
	s := &Session{
		Poller: ForRoom(store, room.ID, userID, room, onEvent),
		store:  store,
		roomID: room.ID,
		userID: userID,
	}
	s.Start(ctx)
	return s
}

// Close stops the poller and sends a best-effort leave. It is safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		s.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.LeaveRoom(ctx, s.roomID, s.userID); err != nil {
			logrus.WithFields(logrus.Fields{"room_id": s.roomID, "user_id": s.userID}).WithError(err).Warn("[SESSION] leave on close failed")
		}
	})
}
