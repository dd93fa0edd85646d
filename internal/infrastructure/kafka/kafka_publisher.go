package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string, topic string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
		})
	}
	return k.writer.WriteMessages(ctx, km...)
}

// PublishEvent writes one engine event keyed by activity id, so the events of
// one activity keep their order within a partition.
func (k *DefaultKafkaPublisher) PublishEvent(ctx context.Context, event domain.Event) error {
	msg, err := EncodeEvent(event)
	if err != nil {
		return err
	}
	return k.Publish(ctx, msg)
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

func EncodeEvent(event domain.Event) (domain.Message, error) {
	v, err := json.Marshal(event)
	if err != nil {
		return domain.Message{}, errors.Wrapf(err, "marshal %s event", event.Type)
	}
	return domain.Message{Key: []byte(event.ActivityID), Value: v}, nil
}
