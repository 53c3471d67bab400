package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer wraps the socket.io server and tracks which rooms each player's
// connection watches, keyed by user id.
type SocketServer struct {
	Sio_server *socket.Server
	// user id -> socket connection
	UserConnections map[string]*socket.Socket
	// user id -> watched room codes
	Watching map[string]map[string]struct{}
	mutex    sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		UserConnections: make(map[string]*socket.Socket),
		Watching:        make(map[string]map[string]struct{}),
	}
}

// AddConnection registers the socket of userID, replacing an older one
func (s *SocketServer) AddConnection(userID string, socket *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[userID] = socket
}

// RemoveConnection forgets userID and the rooms it watched
func (s *SocketServer) RemoveConnection(userID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.UserConnections, userID)
	delete(s.Watching, userID)
}

func (s *SocketServer) GetConnection(userID string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	socket, exists := s.UserConnections[userID]
	return socket, exists
}

// Watch records that userID follows the room with the given code
func (s *SocketServer) Watch(userID, code string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.Watching[userID] == nil {
		s.Watching[userID] = make(map[string]struct{})
	}
	s.Watching[userID][code] = struct{}{}
}

// Unwatch reports whether userID was following code
func (s *SocketServer) Unwatch(userID, code string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	rooms, ok := s.Watching[userID]
	if !ok {
		return false
	}
	if _, ok := rooms[code]; !ok {
		return false
	}
	delete(rooms, code)
	return true
}

// Watchers counts the players following code
func (s *SocketServer) Watchers(code string) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	n := 0
	for _, rooms := range s.Watching {
		if _, ok := rooms[code]; ok {
			n++
		}
	}
	return n
}
