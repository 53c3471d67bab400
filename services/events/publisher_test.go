package events

import (
	"Playroom/models"
	"Playroom/services/lobby"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []lobby.Event
}

func (r *recorder) Publish(_ context.Context, e lobby.Event) {
	r.events = append(r.events, e)
}

func TestMultiPublishesToEveryone(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, nil, b}
	m.Publish(context.Background(), lobby.Event{Type: lobby.EventGameStarted, RoomID: "r1"})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestKafkaMessage(t *testing.T) {
	k := NewKafkaPublisherWithProducer(nil, "rooms")
	room := &models.Room{ID: "r1", Code: "ABC123", Status: models.StatusPlaying}

	msg, err := k.Message(lobby.Event{Type: lobby.EventGameStarted, RoomID: "r1", RoomCode: "ABC123", Room: room})
	require.NoError(t, err)
	assert.Equal(t, "rooms", msg.Topic)
	assert.Equal(t, sarama.StringEncoder("r1"), msg.Key)
	assert.Equal(t, "event-type", string(msg.Headers[0].Key))
	assert.Equal(t, "game_started", string(msg.Headers[0].Value))

	raw, err := msg.Value.Encode()
	require.NoError(t, err)
	var decoded lobby.Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "ABC123", decoded.RoomCode)
	assert.Equal(t, models.StatusPlaying, decoded.Room.Status)

	cleaned, err := k.Message(lobby.Event{Type: lobby.EventRoomsCleaned, Count: 3})
	require.NoError(t, err)
	assert.Nil(t, cleaned.Key)
}

func TestKafkaPublishSendsAndSurvivesFailures(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var e lobby.Event
		if err := json.Unmarshal(val, &e); err != nil {
			return err
		}
		if e.Type != lobby.EventRoomCreated {
			return errors.New("unexpected event type " + string(e.Type))
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := NewKafkaPublisherWithProducer(producer, "rooms")
	k.Publish(context.Background(), lobby.Event{Type: lobby.EventRoomCreated, RoomID: "r1"})
	// a broker failure is logged, never returned
	k.Publish(context.Background(), lobby.Event{Type: lobby.EventGameStarted, RoomID: "r1"})

	assert.NoError(t, k.Close())
}
