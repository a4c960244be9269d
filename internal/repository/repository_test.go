package repository

import (
	"context"
	"testing"
	"time"

	"folio/internal/models"
	"folio/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, NewUserRepository(db).CreateWithProfile(context.Background(), u))
	return u
}

func seedPost(t *testing.T, db *gorm.DB, author *models.User, title string, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: "body of " + title, UserID: author.ID, CreatedAt: at}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), p))
	return p
}

func sqliteDB(t *testing.T) *gorm.DB {
	return testutil.SQLiteDB(t)
}
