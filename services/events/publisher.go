package events

import (
	"Playroom/services/lobby"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// Multi fans an event out to several publishers, in order
type Multi []lobby.Publisher

func (m Multi) Publish(ctx context.Context, event lobby.Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, event)
		}
	}
}

// KafkaPublisher journals lifecycle events to a Kafka topic, keyed by room id so the
// events of one room stay in one partition. Delivery is best effort.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewSaramaConfig returns the producer settings used for the journal
func NewSaramaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "playroom"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Producer.Timeout = 2 * time.Second
	config.Net.DialTimeout = 3 * time.Second
	return config
}

// NewKafkaPublisher connects a sync producer to brokers
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("error creating kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Message builds the Kafka record of event
func (k *KafkaPublisher) Message(event lobby.Event) (*sarama.ProducerMessage, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
		},
		Timestamp: time.Now(),
	}
	if event.RoomID != "" {
		msg.Key = sarama.StringEncoder(event.RoomID)
	}
	return msg, nil
}

func (k *KafkaPublisher) Publish(_ context.Context, event lobby.Event) {
	logCtx := logrus.WithFields(logrus.Fields{"topic": k.topic, "type": event.Type, "room_id": event.RoomID})
	msg, err := k.Message(event)
	if err != nil {
		logCtx.WithError(err).Error("[KAFKA] could not encode event")
		return
	}
	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		logCtx.WithError(err).Warn("[KAFKA] event dropped")
		return
	}
	logCtx.WithFields(logrus.Fields{"partition": partition, "offset": offset}).Debug("[KAFKA] event journaled")
}

func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}
