package handlers

import (
	"Playroom/models"
	"Playroom/services/lobby"
	socketio_types "Playroom/services/socket_io/types"
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zishang520/socket.io/v2/socket"
)

// RoomFinder looks rooms up by code
type RoomFinder interface {
	GetRoomByCode(ctx context.Context, code string) (*models.Room, error)
}

const lookupTimeout = 5 * time.Second

// codeFromArgs accepts either "CODE" or {"code": "CODE"} as first argument
func codeFromArgs(args []interface{}) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	switch v := args[0].(type) {
	case string:
		return v, v != ""
	case map[string]interface{}:
		code, ok := v["code"].(string)
		return code, ok && code != ""
	}
	return "", false
}

// HandleWatchRoom subscribes a room member to the push signals of the room. A room
// that already started answers with game_started right away.
func HandleWatchRoom(finder RoomFinder, client *socket.Socket, userID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, ok := codeFromArgs(args)
		if !ok {
			client.Emit("error", gin.H{"error": "watch_room needs a room code"})
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		room, err := finder.GetRoomByCode(ctx, code)
		if err != nil {
			logrus.WithFields(logrus.Fields{"code": code, "user_id": userID}).WithError(err).Info("[WATCH-ERROR] room lookup failed")
			client.Emit("error", gin.H{"error": err.Error(), "code": lobby.ErrorCode(err)})
			return
		}
		if !room.HasPlayer(userID) {
			client.Emit("error", gin.H{"error": "You must join the room before watching it", "code": lobby.ErrorCode(lobby.ErrAuthorization)})
			return
		}

		client.Join(socket.Room(room.Code))
		sio.Watch(userID, room.Code)
		logrus.WithFields(logrus.Fields{"code": room.Code, "user_id": userID}).Debug("[WATCH] watching room")

		client.Emit("room_state", room)
		if room.Status == models.StatusPlaying {
			client.Emit("game_started", GameStartedPayload(room))
		}
	}
}

// HandleUnwatchRoom stops the push signals of a room
func HandleUnwatchRoom(client *socket.Socket, userID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, ok := codeFromArgs(args)
		if !ok {
			return
		}
		if sio.Unwatch(userID, code) {
			client.Leave(socket.Room(code))
		}
	}
}

// GameStartedPayload is what watchers receive when the host starts the game
func GameStartedPayload(room *models.Room) gin.H {
	return gin.H{
		"roomId":   room.ID,
		"code":     room.Code,
		"gameType": room.GameType,
		"room":     room,
	}
}
