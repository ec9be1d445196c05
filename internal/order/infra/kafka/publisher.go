package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dwikikusuma/order-service/internal/order/app"
	"github.com/segmentio/kafka-go"
)

// Publisher writes order lifecycle events to a kafka topic, keyed by order
// id so all events for one order land on the same partition.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(strings.Split(brokers, ",")...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, event app.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
