package socket_io

import (
	"Playroom/services/lobby"
	"Playroom/services/socket_io/handlers"
	socketio_types "Playroom/services/socket_io/types"
	socketio_utils "Playroom/services/socket_io/utils"
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

var _ lobby.Publisher = (*MySocketServer)(nil)

// MySocketServer pushes room lifecycle signals to clients that watch a room. Polling
// stays the source of truth; the push only shortens the wait for game_started.
type MySocketServer socketio_types.SocketServer

func NewServer() *MySocketServer {
	sio := (*MySocketServer)(socketio_types.NewSocketServer())
	sio.Sio_server = socket.NewServer(nil, nil)
	return sio
}

func (sio *MySocketServer) types() *socketio_types.SocketServer {
	return (*socketio_types.SocketServer)(sio)
}

// Start registers the connection handlers and mounts socket.io on router
func (sio *MySocketServer) Start(router *gin.Engine, finder handlers.RoomFinder, secret string) {
	log.DEBUG = false
	c := socket.DefaultServerOptions()
	c.SetServeClient(false)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		success, userID, userName := socketio_utils.VerifyUserConnection(client, secret)
		if !success {
			client.Disconnect(true)
			return
		}
		sio.types().AddConnection(userID, client)
		logrus.WithFields(logrus.Fields{"user_id": userID, "user_name": userName}).Debug("[SOCKET] player connected")

		// Follow a room: {"code": "ABC123"}
		client.On("watch_room", handlers.HandleWatchRoom(finder, client, userID, sio.types()))

		client.On("unwatch_room", handlers.HandleUnwatchRoom(client, userID, sio.types()))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(userID, sio.types()))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	logrus.Info("[SOCKET] socket.io server started")
}

// Publish forwards committed room events to the watchers of the room
func (sio *MySocketServer) Publish(_ context.Context, event lobby.Event) {
	if event.RoomCode == "" {
		return
	}
	room := socket.Room(event.RoomCode)
	switch event.Type {
	case lobby.EventGameStarted:
		if event.Room == nil {
			return
		}
		sio.Sio_server.To(room).Emit("game_started", handlers.GameStartedPayload(event.Room))
		logrus.WithFields(logrus.Fields{"code": event.RoomCode, "watchers": sio.types().Watchers(event.RoomCode)}).Info("[SOCKET] game_started broadcast")
	case lobby.EventGameFinished:
		sio.Sio_server.To(room).Emit("game_finished", gin.H{"roomId": event.RoomID, "code": event.RoomCode})
	case lobby.EventPlayerJoined:
		sio.Sio_server.To(room).Emit("player_joined", gin.H{"roomId": event.RoomID, "userId": event.UserID})
	}
}

// Close shuts the socket.io server down
func (sio *MySocketServer) Close() {
	sio.Sio_server.Close(nil)
}
