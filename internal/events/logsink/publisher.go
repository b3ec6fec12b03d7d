// Package logsink publishes events to the standard logger. It is the
// default sink when no broker is configured.
package logsink

import (
	"context"
	"encoding/json"
	"log"

	interfaces "github.com/sheikh-saqib/atm-ledger-system/internal/interfaces"
)

type Publisher struct {
	logger *log.Logger
}

// NewPublisher logs through logger, or the standard logger when nil.
func NewPublisher(logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{logger: logger}
}

func (p *Publisher) Publish(_ context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.logger.Printf("event %s: %s", topic, data)
	return nil
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
