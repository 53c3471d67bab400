package storage

import (
	lobby_constants "Playroom/constants/lobby"
	"Playroom/models"
	"Playroom/models/postgres"
	"Playroom/services/lobby"
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ lobby.Store = (*Store)(nil)

// ActivityRecorder buffers heartbeats outside PostgreSQL (Redis in production)
type ActivityRecorder interface {
	RecordActivity(roomID, userID string, at time.Time) error
}

// Store is the authoritative lobby.Store backed by PostgreSQL. Every mutation locks
// the room (or group) row with SELECT ... FOR UPDATE inside a transaction, runs the
// shared lobby rules and writes the result back.
type Store struct {
	db         *gorm.DB
	activity   ActivityRecorder
	staleAfter time.Duration
	now        func() time.Time
}

// NewStore builds a store. activity may be nil, heartbeats then go straight to PostgreSQL.
func NewStore(db *gorm.DB, activity ActivityRecorder, staleAfter time.Duration) *Store {
	if staleAfter <= 0 {
		staleAfter = lobby_constants.STALE_ROOM_AFTER
	}
	return &Store{db: db, activity: activity, staleAfter: staleAfter, now: func() time.Time { return time.Now().UTC() }}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// dbError maps driver errors onto the lobby taxonomy
func dbError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", lobby.ErrNotFound, what)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", lobby.ErrStaleWrite, what)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %s: %v", lobby.ErrUnavailable, what, err)
	}
	return fmt.Errorf("error accessing %s: %w", what, err)
}

func playersInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func membersInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("joined_at ASC")
}

func (s *Store) CreateRoom(ctx context.Context, spec models.RoomSpec) (*models.Room, error) {
	var created *models.Room
	_, err := lobby.InsertWithUniqueCode(ctx, func(code string) error {
		room, err := lobby.NewRoom(spec, code, s.now())
		if err != nil {
			return err
		}
		row, err := postgres.NewGameRoom(room)
		if err != nil {
			return err
		}
		// one transaction per attempt: a unique violation aborts it
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(row).Error
		})
		if err != nil {
			return dbError(err, "room "+code)
		}
		created = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	var row postgres.GameRoom
	err := s.db.WithContext(ctx).Preload("Players", playersInOrder).Where("id = ?", roomID).First(&row).Error
	if err != nil {
		return nil, dbError(err, "room "+roomID)
	}
	return row.ToModel()
}

func (s *Store) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	var row postgres.GameRoom
	err := s.db.WithContext(ctx).Preload("Players", playersInOrder).Where("code = ?", code).First(&row).Error
	if err != nil {
		return nil, dbError(err, "room "+code)
	}
	return row.ToModel()
}

func (s *Store) ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error) {
	status := filter.Status
	if status == "" {
		status = models.StatusWaiting
	}
	q := s.db.WithContext(ctx).Preload("Players", playersInOrder).
		Where("is_private = ? AND status = ?", false, string(status))
	if filter.GameType != "" {
		q = q.Where("game_type = ?", filter.GameType)
	}
	var rows []postgres.GameRoom
	if err := q.Order("created_at DESC").Limit(100).Find(&rows).Error; err != nil {
		return nil, dbError(err, "rooms")
	}
	out := make([]models.Room, 0, len(rows))
	for i := range rows {
		r, err := rows[i].ToModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// mutateRoom locks the room matched by where, applies fn and writes the room back
func (s *Store) mutateRoom(ctx context.Context, what string, where string, arg any, fn func(*models.Room) error) (*models.Room, error) {
	var result *models.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row postgres.GameRoom
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(where, arg).First(&row).Error
		if err != nil {
			return dbError(err, what)
		}
		if err := tx.Where("room_id = ?", row.ID).Order("position ASC").Find(&row.Players).Error; err != nil {
			return dbError(err, what)
		}
		room, err := row.ToModel()
		if err != nil {
			return err
		}
		if err := fn(room); err != nil {
			return err
		}
		if err := s.saveRoom(tx, room); err != nil {
			return err
		}
		result = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// saveRoom rewrites the room row and its players. Callers hold the row lock.
func (s *Store) saveRoom(tx *gorm.DB, room *models.Room) error {
	row, err := postgres.NewGameRoom(room)
	if err != nil {
		return err
	}
	players := row.Players
	row.Players = nil
	if err := tx.Omit(clause.Associations).Save(row).Error; err != nil {
		return dbError(err, "room "+room.ID)
	}
	if err := tx.Where("room_id = ?", room.ID).Delete(&postgres.RoomPlayer{}).Error; err != nil {
		return dbError(err, "players of room "+room.ID)
	}
	if len(players) == 0 {
		return nil
	}
	if err := tx.Create(&players).Error; err != nil {
		return dbError(err, "players of room "+room.ID)
	}
	return nil
}

func (s *Store) JoinRoom(ctx context.Context, code, userID, userName string) (*models.Room, error) {
	now := s.now()
	return s.mutateRoom(ctx, "room "+code, "code = ?", code, func(r *models.Room) error {
		return lobby.ApplyJoin(r, userID, userName, now)
	})
}

func (s *Store) LeaveRoom(ctx context.Context, roomID, userID string) error {
	now := s.now()
	_, err := s.mutateRoom(ctx, "room "+roomID, "id = ?", roomID, func(r *models.Room) error {
		lobby.ApplyLeave(r, userID, now)
		return nil
	})
	return err
}

func (s *Store) SetPlayerReady(ctx context.Context, roomID, userID string, ready bool) (*models.Room, error) {
	now := s.now()
	return s.mutateRoom(ctx, "room "+roomID, "id = ?", roomID, func(r *models.Room) error {
		return lobby.ApplySetReady(r, userID, ready, now)
	})
}

func (s *Store) SetPlayerTeam(ctx context.Context, roomID, userID, teamID string) (*models.Room, error) {
	now := s.now()
	return s.mutateRoom(ctx, "room "+roomID, "id = ?", roomID, func(r *models.Room) error {
		return lobby.ApplySetTeam(r, userID, teamID, now)
	})
}

func (s *Store) UpdateRoomStatus(ctx context.Context, roomID string, status models.RoomStatus) (*models.Room, error) {
	now := s.now()
	return s.mutateRoom(ctx, "room "+roomID, "id = ?", roomID, func(r *models.Room) error {
		return lobby.ApplyStatus(r, status, now)
	})
}

func (s *Store) StartRoom(ctx context.Context, roomID, callerID string) (*models.Room, error) {
	now := s.now()
	return s.mutateRoom(ctx, "room "+roomID, "id = ?", roomID, func(r *models.Room) error {
		return lobby.ApplyStart(r, callerID, now)
	})
}

// UpdatePlayerActivity buffers the heartbeat in Redis when available, the sync manager
// flushes it later. Without Redis it is two plain UPDATEs.
func (s *Store) UpdatePlayerActivity(ctx context.Context, roomID, userID string) error {
	now := s.now()
	if s.activity != nil {
		err := s.activity.RecordActivity(roomID, userID, now)
		if err == nil {
			return nil
		}
		logrus.WithError(err).Warn("[HEARTBEAT] Redis unavailable, writing to PostgreSQL")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&postgres.GameRoom{}).Where("id = ?", roomID).UpdateColumn("last_activity_at", now)
		if res.Error != nil {
			return dbError(res.Error, "room "+roomID)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: room %s", lobby.ErrNotFound, roomID)
		}
		err := tx.Model(&postgres.RoomPlayer{}).Where("room_id = ? AND user_id = ?", roomID, userID).
			UpdateColumn("last_seen_at", now).Error
		return dbError(err, "player "+userID)
	})
}

// CleanupStaleRooms deletes rooms without players or without activity inside the stale
// window. Players go with them through the cascading foreign key.
func (s *Store) CleanupStaleRooms(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.staleAfter)
	res := s.db.WithContext(ctx).
		Where("last_activity_at < ? OR NOT EXISTS (SELECT 1 FROM room_players rp WHERE rp.room_id = game_rooms.id)", cutoff).
		Delete(&postgres.GameRoom{})
	if res.Error != nil {
		return 0, dbError(res.Error, "stale rooms")
	}
	return int(res.RowsAffected), nil
}
