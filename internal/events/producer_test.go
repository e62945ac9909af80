package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProducer_NoBrokers(t *testing.T) {
	producer := NewProducer(Config{Topic: "community-events"})
	require.Nil(t, producer)

	// Publishing through a nil producer is a no-op, not a panic.
	err := producer.Publish(context.Background(), Event{
		Type:   TypeMembershipApproved,
		UserID: 1,
	})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestNewProducer_WithBrokers(t *testing.T) {
	producer := NewProducer(Config{
		Brokers: []string{"localhost:9092"},
		Topic:   "community-events",
	})
	require.NotNil(t, producer)
	require.NoError(t, producer.Close())
}
