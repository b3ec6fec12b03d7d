package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	interfaces "github.com/sheikh-saqib/atm-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models/events"
)

type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher writing to brokers. The topic is taken
// from each Publish call, so the writer itself carries none.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			Compression:  kafka.Lz4,
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	msg, err := buildMessage(topic, event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// buildMessage encodes event as JSON. Ledger events are keyed by account
// ID so every event of one account lands on the same partition.
func buildMessage(topic string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	msg := kafka.Message{Topic: topic, Value: data}
	if e, ok := event.(events.LedgerEvent); ok {
		msg.Key = []byte(e.AccountID)
		msg.Headers = []kafka.Header{{Key: "kind", Value: []byte(e.Kind)}}
	}
	return msg, nil
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
