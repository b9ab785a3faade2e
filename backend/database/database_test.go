package database

import (
	"testing"

	"coursehub/backend/config"
	"coursehub/backend/logger"
	"coursehub/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSQLiteMigrateAndSeed(t *testing.T) {
	cfg := &config.Config{
		DBDriver:          "sqlite",
		SQLitePath:        "file:" + t.Name() + "?mode=memory&cache=shared",
		DBConnectAttempts: 1,
	}
	db, err := Connect(cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var courses, sections, lessons int64
	db.Model(&models.Course{}).Count(&courses)
	db.Model(&models.Section{}).Count(&sections)
	db.Model(&models.Lesson{}).Count(&lessons)
	assert.Equal(t, int64(1), courses)
	assert.Equal(t, int64(2), sections)
	assert.Equal(t, int64(3), lessons)
}
