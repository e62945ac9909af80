package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"community-api/internal/models"
	"community-api/internal/repository"
)

func setupMessageService(t *testing.T) (*gorm.DB, *MessageService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	notifications := NewNotificationService(repository.NewNotificationRepository(db), nil, nil)
	service := NewMessageService(db, repository.NewMessageRepository(db), repository.NewUserRepository(db), notifications)
	return db, service
}

func messagingUsers(t *testing.T, db *gorm.DB) (*models.User, *models.User) {
	t.Helper()
	alice := &models.User{Username: "alice", PasswordHash: "x", AppRole: models.AppRoleUser}
	require.NoError(t, db.Create(alice).Error)
	bob := &models.User{Username: "bob", PasswordHash: "x", AppRole: models.AppRoleUser}
	require.NoError(t, db.Create(bob).Error)
	return alice, bob
}

func TestSendMessage_CreatesOneConversationPerPair(t *testing.T) {
	db, service := setupMessageService(t)
	alice, bob := messagingUsers(t, db)
	ctx := context.Background()

	first, err := service.SendMessage(ctx, alice.ID, bob.ID, "hi bob")
	require.NoError(t, err)

	// The reply lands in the same conversation regardless of direction.
	reply, err := service.SendMessage(ctx, bob.ID, alice.ID, "hi alice")
	require.NoError(t, err)
	require.Equal(t, first.ConversationID, reply.ConversationID)

	var count int64
	db.Model(&models.Conversation{}).Count(&count)
	require.Equal(t, int64(1), count)

	// The recipient got a notification for each message.
	var notified int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", bob.ID, models.NotificationNewMessage).
		Count(&notified)
	require.Equal(t, int64(1), notified)
}

func TestSendMessage_Validation(t *testing.T) {
	db, service := setupMessageService(t)
	alice, bob := messagingUsers(t, db)
	ctx := context.Background()

	_, err := service.SendMessage(ctx, alice.ID, bob.ID, "")
	require.ErrorIs(t, err, ErrEmptyMessage)

	_, err = service.SendMessage(ctx, alice.ID, alice.ID, "note to self")
	require.ErrorIs(t, err, ErrMessageToSelf)

	_, err = service.SendMessage(ctx, alice.ID, 9999, "hello?")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestListMessages_ParticipantsOnly(t *testing.T) {
	db, service := setupMessageService(t)
	alice, bob := messagingUsers(t, db)
	eve := &models.User{Username: "eve", PasswordHash: "x", AppRole: models.AppRoleUser}
	require.NoError(t, db.Create(eve).Error)
	ctx := context.Background()

	msg, err := service.SendMessage(ctx, alice.ID, bob.ID, "secret")
	require.NoError(t, err)

	messages, err := service.ListMessages(bob.ID, msg.ConversationID, 0, 20)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "secret", messages[0].Body)

	_, err = service.ListMessages(eve.ID, msg.ConversationID, 0, 20)
	require.ErrorIs(t, err, ErrNotInConversation)
}

func TestListConversations(t *testing.T) {
	db, service := setupMessageService(t)
	alice, bob := messagingUsers(t, db)
	carol := &models.User{Username: "carol", PasswordHash: "x", AppRole: models.AppRoleUser}
	require.NoError(t, db.Create(carol).Error)
	ctx := context.Background()

	_, err := service.SendMessage(ctx, alice.ID, bob.ID, "one")
	require.NoError(t, err)
	_, err = service.SendMessage(ctx, alice.ID, carol.ID, "two")
	require.NoError(t, err)

	conversations, err := service.ListConversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	conversations, err = service.ListConversations(bob.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
}
