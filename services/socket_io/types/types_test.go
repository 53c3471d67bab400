package socketio_types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchBookkeeping(t *testing.T) {
	s := NewSocketServer()

	s.Watch("u1", "ABC123")
	s.Watch("u2", "ABC123")
	s.Watch("u2", "XYZ789")
	assert.Equal(t, 2, s.Watchers("ABC123"))
	assert.Equal(t, 1, s.Watchers("XYZ789"))

	assert.True(t, s.Unwatch("u2", "ABC123"))
	assert.False(t, s.Unwatch("u2", "ABC123"))
	assert.False(t, s.Unwatch("nobody", "ABC123"))
	assert.Equal(t, 1, s.Watchers("ABC123"))

	s.RemoveConnection("u2")
	assert.Equal(t, 0, s.Watchers("XYZ789"))
	_, ok := s.GetConnection("u2")
	assert.False(t, ok)
}
