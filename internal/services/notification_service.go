package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"community-api/internal/cache"
	"community-api/internal/events"
	"community-api/internal/models"
	"community-api/internal/repository"
)

// NotificationService manages in-app notifications. The database row is the
// source of truth; the Redis counter only accelerates unread lookups and the
// Kafka event lets downstream consumers (push transports) react.
type NotificationService struct {
	repo     repository.NotificationRepository
	counter  *cache.UnreadCounter
	producer *events.Producer
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repository.NotificationRepository, counter *cache.UnreadCounter, producer *events.Producer) *NotificationService {
	return &NotificationService{
		repo:     repo,
		counter:  counter,
		producer: producer,
	}
}

// NotifyInput represents one notification to record.
type NotifyInput struct {
	UserID      uint64
	Kind        models.NotificationKind
	ActorID     *uint64
	CommunityID *uint64
	Body        string
}

// Notify records a notification row, bumps the unread counter, and publishes
// an event. Counter and event failures are logged, not propagated: the row
// is already durable.
func (s *NotificationService) Notify(ctx context.Context, input NotifyInput) (*models.Notification, error) {
	n := &models.Notification{
		UserID:      input.UserID,
		Kind:        input.Kind,
		ActorID:     input.ActorID,
		CommunityID: input.CommunityID,
		Body:        input.Body,
	}
	if err := s.repo.Create(n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if err := s.counter.Incr(ctx, input.UserID); err != nil {
		log.Printf("failed to bump unread counter for user %d: %v", input.UserID, err)
	}

	event := events.Event{
		Type:   events.TypeNotification,
		UserID: input.UserID,
	}
	if input.ActorID != nil {
		event.ActorID = *input.ActorID
	}
	if input.CommunityID != nil {
		event.CommunityID = *input.CommunityID
	}
	if err := s.producer.Publish(ctx, event); err != nil {
		log.Printf("failed to publish notification event for user %d: %v", input.UserID, err)
	}

	return n, nil
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(userID uint64, offset, limit int) ([]models.Notification, error) {
	notifications, err := s.repo.ListByUser(userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns the user's unread count, served from the counter when
// cached and repopulated from the database on a miss.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	count, err := s.counter.Get(ctx, userID)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Printf("failed to read unread counter for user %d: %v", userID, err)
	}

	count, err = s.repo.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	if err := s.counter.Set(ctx, userID, count); err != nil {
		log.Printf("failed to cache unread count for user %d: %v", userID, err)
	}
	return count, nil
}

// MarkAllRead stamps every unread notification and clears the counter.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint64) error {
	if err := s.repo.MarkAllRead(userID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	if err := s.counter.Clear(ctx, userID); err != nil {
		log.Printf("failed to clear unread counter for user %d: %v", userID, err)
	}
	return nil
}
