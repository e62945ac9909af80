package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB wires sqlmock behind a GORM connection so the generated SQL
// can be asserted directly.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestCountUnread_QueriesOnlyUnreadRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `notifications` WHERE user_id = \\? AND read_at IS NULL").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	count, err := repo.CountUnread(7)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAllRead_UpdatesOnlyUnreadRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	at := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `notifications` SET `read_at`=\\? WHERE user_id = \\? AND read_at IS NULL").
		WithArgs(at, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.MarkAllRead(7, at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser_OrdersNewestFirst(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "kind", "body"}).
		AddRow(2, 7, "new_message", "later").
		AddRow(1, 7, "new_message", "earlier")
	mock.ExpectQuery("SELECT \\* FROM `notifications` WHERE user_id = \\? ORDER BY created_at DESC LIMIT \\? OFFSET \\?").
		WithArgs(uint64(7), 20, 10).
		WillReturnRows(rows)

	notifications, err := repo.ListByUser(7, 10, 20)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	require.Equal(t, "later", notifications[0].Body)
	require.NoError(t, mock.ExpectationsWereMet())
}
