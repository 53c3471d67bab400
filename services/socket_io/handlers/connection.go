package handlers

import (
	socketio_types "Playroom/services/socket_io/types"

	"github.com/sirupsen/logrus"
)

// HandleDisconnecting forgets the connection of userID. Room membership is left
// alone: a dropped socket is not a leave, stale players are removed by cleanup.
func HandleDisconnecting(userID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		logrus.WithField("user_id", userID).Debug("[DISCONNECT] socket disconnecting")
		sio.RemoveConnection(userID)
	}
}
