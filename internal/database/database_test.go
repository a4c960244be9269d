package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"folio/internal/config"
	"folio/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:                      "test",
		DBDriver:                 "sqlite",
		SQLitePath:               filepath.Join(t.TempDir(), "folio.db"),
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
}

func TestConnect_SQLiteAppliesPoolAndSchema(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := Connect(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, ApplySchema(context.Background(), db, cfg))
	for _, table := range []string{"users", "profiles", "posts", "likes", "portfolios", "services", "contact_messages", "post_tags"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestSQLite_LikeUniquenessTranslated(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, ApplySchema(context.Background(), db, cfg))

	user := models.User{Username: "ana", Email: "ana@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	post := models.Post{Title: "t", Content: "c", UserID: user.ID}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, db.Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error)
	err = db.Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		sql     bool
		auto    bool
		wantErr bool
	}{
		{"hybrid dev", config.Config{Env: "development"}, true, true, false},
		{"hybrid prod", config.Config{Env: "production"}, true, false, false},
		{"sql", config.Config{Env: "development", DBSchemaMode: "sql"}, true, false, false},
		{"auto prod refused", config.Config{Env: "production", DBSchemaMode: "auto"}, false, false, true},
		{"auto prod allowed", config.Config{Env: "production", DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true}, false, true, false},
		{"sqlite always auto", config.Config{Env: "production", DBDriver: "sqlite"}, false, true, false},
		{"sqlite sql refused", config.Config{DBDriver: "sqlite", DBSchemaMode: "sql"}, false, false, true},
		{"unknown mode", config.Config{DBSchemaMode: "yolo"}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sql, runSQL)
			assert.Equal(t, tt.auto, runAuto)
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	list := GetMigrations()
	require.NotEmpty(t, list)
	assert.Equal(t, 1, list[0].Version)
	assert.Equal(t, "000001_init", list[0].String())
	assert.Contains(t, list[0].UpScript, "CREATE UNIQUE INDEX IF NOT EXISTS idx_like_user_post")
	assert.NotNil(t, GetMigrationByVersion(2))
	assert.Nil(t, GetMigrationByVersion(99))
}

func TestLoadMigrations_RequiresDownScript(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000001_a.up.sql":   {Data: []byte("SELECT 1;")},
		"m/000001_a.down.sql": {Data: []byte("SELECT 1;")},
		"m/000002_b.up.sql":   {Data: []byte("SELECT 2;")},
	}
	_, err := LoadMigrations(fsys, "m")
	assert.Error(t, err)

	delete(fsys, "m/000002_b.up.sql")
	list, err := LoadMigrations(fsys, "m")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1}, {Version: 2}}
	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1, 2}, registered))
	assert.ErrorContains(t, validateAppliedVersions([]int{1, 7}, registered), "000007")
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	l := NewGormLogger(nil)
	quiet := l.LogMode(1)
	assert.NotSame(t, l, quiet)
	assert.Equal(t, 200*time.Millisecond, l.Config.SlowThreshold)
}
