package services

import (
	"context"
	"errors"
	"fmt"

	"community-api/internal/models"
	"community-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEmptyMessage         = errors.New("message body cannot be empty")
	ErrMessageToSelf        = errors.New("cannot message yourself")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotInConversation    = errors.New("not a participant of this conversation")
)

// MessageService handles direct messages between users.
type MessageService struct {
	db            *gorm.DB
	messageRepo   repository.MessageRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

// NewMessageService creates a new MessageService.
func NewMessageService(db *gorm.DB, messageRepo repository.MessageRepository, userRepo repository.UserRepository, notifications *NotificationService) *MessageService {
	return &MessageService{
		db:            db,
		messageRepo:   messageRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// SendMessage delivers a direct message, creating the conversation on first
// contact and notifying the recipient.
func (s *MessageService) SendMessage(ctx context.Context, senderID, recipientID uint64, body string) (*models.Message, error) {
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if senderID == recipientID {
		return nil, ErrMessageToSelf
	}

	if _, err := s.userRepo.FindByID(recipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find recipient: %w", err)
	}

	conv, err := s.messageRepo.FindOrCreateConversation(senderID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to open conversation: %w", err)
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           body,
	}
	if err := s.messageRepo.CreateMessage(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if s.notifications != nil {
		s.notifications.Notify(ctx, NotifyInput{
			UserID:  recipientID,
			Kind:    models.NotificationNewMessage,
			ActorID: &senderID,
		})
	}

	return msg, nil
}

// ListMessages returns a conversation's messages for one of its
// participants.
func (s *MessageService) ListMessages(userID, conversationID uint64, offset, limit int) ([]models.Message, error) {
	conversations, err := s.messageRepo.ListConversations(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	participant := false
	for _, conv := range conversations {
		if conv.ID == conversationID {
			participant = true
			break
		}
	}
	if !participant {
		return nil, ErrNotInConversation
	}

	messages, err := s.messageRepo.ListMessages(conversationID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// ListConversations returns the caller's conversations.
func (s *MessageService) ListConversations(userID uint64) ([]models.Conversation, error) {
	conversations, err := s.messageRepo.ListConversations(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}
