package testutil

import (
	"path/filepath"
	"testing"

	"folio/internal/config"
	"folio/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SQLiteDB opens a fresh file-backed SQLite database with the full schema.
// Foreign keys are enforced, so cascades behave like production.
func SQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		Env:            "test",
		DBDriver:       "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "test.db"),
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
