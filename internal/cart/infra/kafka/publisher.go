// Package kafka publishes cart events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dwikikusuma/shopping-cart/internal/cart/app"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type Publisher struct {
	w messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{w: &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}}
}

// Publish writes evt keyed by session, so one session's events stay ordered
// on a single partition.
func (p *Publisher) Publish(ctx context.Context, evt app.Event) error {
	msg, err := toMessage(evt)
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", evt.Type, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}

func toMessage(evt app.Event) (kafkago.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("encode %s: %w", evt.Type, err)
	}
	return kafkago.Message{
		Key:   []byte(evt.SessionKey),
		Value: payload,
		Time:  evt.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte(evt.Type)},
		},
	}, nil
}
