package models

import "time"

// Conversation pairs two users for direct messages. UserAID is always the
// smaller of the two ids so a pair maps to exactly one row.
type Conversation struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserAID   uint64    `gorm:"not null;uniqueIndex:uk_conversation" json:"user_a_id"`
	UserBID   uint64    `gorm:"not null;uniqueIndex:uk_conversation" json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

type Message struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	ConversationID uint64    `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint64    `gorm:"not null" json:"sender_id"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	CreatedAt      time.Time `json:"created_at"`

	// Relations
	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
