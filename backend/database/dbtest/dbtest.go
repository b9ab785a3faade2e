// Package dbtest opens isolated, migrated SQLite databases for tests.
package dbtest

import (
	"testing"

	"coursehub/backend/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// shared-cache memory databases lock per table across connections
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
