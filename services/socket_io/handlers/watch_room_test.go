package handlers

import (
	"Playroom/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeFromArgs(t *testing.T) {
	code, ok := codeFromArgs([]interface{}{"ABC123"})
	assert.True(t, ok)
	assert.Equal(t, "ABC123", code)

	code, ok = codeFromArgs([]interface{}{map[string]interface{}{"code": "XYZ789"}})
	assert.True(t, ok)
	assert.Equal(t, "XYZ789", code)

	_, ok = codeFromArgs(nil)
	assert.False(t, ok)
	_, ok = codeFromArgs([]interface{}{map[string]interface{}{"code": 1}})
	assert.False(t, ok)
	_, ok = codeFromArgs([]interface{}{""})
	assert.False(t, ok)
}

func TestGameStartedPayload(t *testing.T) {
	room := &models.Room{ID: "r1", Code: "ABC123", GameType: "maze", Status: models.StatusPlaying}
	payload := GameStartedPayload(room)
	assert.Equal(t, "r1", payload["roomId"])
	assert.Equal(t, "ABC123", payload["code"])
	assert.Equal(t, "maze", payload["gameType"])
	assert.Same(t, room, payload["room"])
}
