// Package publisher announces loaded exchange rates on a Kafka topic so
// downstream consumers need not poll the table.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/navid-fn/nbu-rates/internal/models"

	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

// MessageWriter is the subset of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RateMessage is the JSON payload of one published rate.
type RateMessage struct {
	ID        string  `json:"id"`
	Currency  string  `json:"currency"`
	Rate      float64 `json:"rate"`
	Date      string  `json:"date"`
	UpdatedAt string  `json:"updated_at"`
}

// KafkaPublisher writes loaded rows keyed by their natural id, so compacted
// topics keep one message per currency per date.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaWriter returns a synchronous writer for the rates topic.
func NewKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Zstd,
	}
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish sends one message per row.
func (p *KafkaPublisher) Publish(ctx context.Context, rows []*models.Rate) error {
	if len(rows) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(rows))
	for _, r := range rows {
		value, err := json.Marshal(NewRateMessage(r))
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", r.ID, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(r.ID), Value: value})
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msgs...); err != nil {
		return fmt.Errorf("failed to send rates to Kafka: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewRateMessage flattens a row into its wire form.
func NewRateMessage(r *models.Rate) RateMessage {
	return RateMessage{
		ID:        r.ID,
		Currency:  r.Currency,
		Rate:      r.Rate,
		Date:      r.Date.Format(time.DateOnly),
		UpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
