package repository

import (
	"errors"

	"community-api/internal/database"
	"community-api/internal/models"
	"gorm.io/gorm"
)

// GormMessageRepository is a GORM implementation of MessageRepository
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

// FindOrCreateConversation returns the conversation for an unordered user
// pair, creating it when absent. The smaller id is stored first so a pair
// maps to exactly one row.
func (r *GormMessageRepository) FindOrCreateConversation(userA, userB uint64) (*models.Conversation, error) {
	if userB < userA {
		userA, userB = userB, userA
	}

	var conv models.Conversation
	err := r.db.Where("user_a_id = ? AND user_b_id = ?", userA, userB).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = models.Conversation{UserAID: userA, UserBID: userB}
	if err := r.db.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// CreateMessage appends a message to a conversation
func (r *GormMessageRepository) CreateMessage(msg *models.Message) error {
	return r.db.Create(msg).Error
}

// ListMessages lists a conversation's messages, oldest first
func (r *GormMessageRepository) ListMessages(conversationID uint64, offset, limit int) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Scopes(database.Paginate(offset, limit)).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// ListConversations lists the conversations a user participates in
func (r *GormMessageRepository) ListConversations(userID uint64) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := r.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}
