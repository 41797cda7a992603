// Package events publishes terminal checkout outcomes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher writes checkout events to a single topic. When no brokers are
// configured the publisher is disabled and every Publish is a no-op, so the
// checkout path does not depend on Kafka being present.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewPublisher(brokersCSV, topic string, logger *zap.Logger) *Publisher {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	p := &Publisher{logger: logger}
	if len(brokers) == 0 {
		return p
	}

	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return p
}

func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

// Publish is fire-and-forget: a broker failure is logged, never returned.
func (p *Publisher) Publish(ctx context.Context, key string, event any) {
	if !p.Enabled() {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event", zap.Error(err), zap.String("key", key))
		return
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event", zap.Error(err), zap.String("key", key))
	}
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
