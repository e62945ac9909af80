package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Event types published to the platform event topic.
const (
	TypeMembershipApproved = "membership.approved"
	TypeMembershipRejected = "membership.rejected"
	TypeRoleChanged        = "membership.role_changed"
	TypeMemberRemoved      = "membership.removed"
	TypeNotification       = "notification.created"
)

// Event is the JSON envelope written to Kafka. UserID keys the message so
// one user's events stay ordered within a partition.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	UserID      uint64    `json:"user_id"`
	ActorID     uint64    `json:"actor_id,omitempty"`
	CommunityID uint64    `json:"community_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
}

type Config struct {
	Brokers []string
	Topic   string
}

// NewProducer builds a Kafka producer. A config with no brokers yields a nil
// producer; all Publish calls on a nil producer are no-ops, which is the
// dev/test default.
func NewProducer(cfg Config) *Producer {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &Producer{writer: w}
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Publish writes one event keyed by its user id.
func (p *Producer) Publish(ctx context.Context, event Event) error {
	if p == nil || p.writer == nil {
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", event.UserID)),
		Value: value,
	}
	return p.writer.WriteMessages(ctx, msg)
}
