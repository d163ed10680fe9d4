package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// TicketEvent is published on every booking and cancellation. One event is
// emitted per confirmation group, not per ticket.
type TicketEvent struct {
	Type           string    `json:"type"`
	ConfirmationID string    `json:"confirmation_id"`
	FlightID       int64     `json:"flight_id"`
	UserID         int64     `json:"user_id"`
	UserEmail      string    `json:"user_email"`
	Status         string    `json:"status"`
	Tickets        int       `json:"tickets"`
	AmountCents    int64     `json:"amount_cents"`
	OccurredAt     time.Time `json:"occurred_at"`
}

const (
	EventBookingCreated = "booking_created"
	EventTicketCanceled = "ticket_canceled"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
