package sync

import (
	redis_models "Playroom/models/redis"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	pending []redis_models.RoomActivity
	err     error
}

func (f *fakeSource) TakeActivity() ([]redis_models.RoomActivity, error) {
	out := f.pending
	f.pending = nil
	return out, f.err
}

func TestFlushActivity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	seen := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	source := &fakeSource{pending: []redis_models.RoomActivity{
		{RoomID: "room-1", Players: map[string]time.Time{"u1": seen}, LastActivityAt: seen},
		{RoomID: "gone", Players: map[string]time.Time{"u2": seen}, LastActivityAt: seen},
	}}
	syncManager := NewSyncManager(source, db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE game_rooms\s+SET last_activity_at = GREATEST\(last_activity_at, \$1\)\s+WHERE id = \$2`).
		WithArgs(seen, "room-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE room_players\s+SET last_seen_at = GREATEST\(last_seen_at, \$1\)\s+WHERE room_id = \$2 AND user_id = \$3`).
		WithArgs(seen, "room-1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE game_rooms`).
		WithArgs(seen, "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	n, err := syncManager.FlushActivity()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlushActivityWithoutRedis(t *testing.T) {
	var sm *SyncManager
	n, err := sm.FlushActivity()
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestFlushActivitySourceError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	syncManager := NewSyncManager(&fakeSource{err: errors.New("connection reset")}, db)
	_, err = syncManager.FlushActivity()
	assert.Error(t, err)
}

func TestFlushActivityKeepsGoingAfterFailedRoom(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	seen := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	source := &fakeSource{pending: []redis_models.RoomActivity{
		{RoomID: "broken", Players: map[string]time.Time{"u1": seen}, LastActivityAt: seen},
		{RoomID: "room-2", Players: map[string]time.Time{"u2": seen}, LastActivityAt: seen},
	}}
	syncManager := NewSyncManager(source, db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE game_rooms`).
		WithArgs(seen, "broken").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE game_rooms`).
		WithArgs(seen, "room-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE room_players`).
		WithArgs(seen, "room-2", "u2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := syncManager.FlushActivity()
	assert.Equal(t, 1, n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "room broken")
	assert.Contains(t, err.Error(), "deadlock detected")
	assert.NoError(t, mock.ExpectationsWereMet())
}
