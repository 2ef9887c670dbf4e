// Package testutil wires an in-memory database and fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"foodgram/config"
	"foodgram/global"
	"foodgram/logger"
	"foodgram/models"
	"foodgram/storage"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PNGDataURI is a 1x1 transparent png as a recipe image payload.
const PNGDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// SetupDB points the globals at a fresh migrated sqlite database and a temp media dir.
// Everything is restored when the test ends.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenDatabase("sqlite", ":memory:", &gorm.Config{
		Logger: logger.NewGormLogger(zap.NewNop(), logger.GormLevel("silent"), time.Second),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.Migrate(db))

	prevDb, prevRedis, prevImages := global.Db, global.RedisDB, global.Images
	global.Db = db
	global.RedisDB = nil
	global.Images = storage.NewLocalStore(t.TempDir(), "/media")

	t.Cleanup(func() {
		global.Db, global.RedisDB, global.Images = prevDb, prevRedis, prevImages
		_ = sqlDB.Close()
	})
	return db
}
