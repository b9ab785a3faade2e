package database

import (
	"time"

	"coursehub/backend/config"
	"coursehub/backend/logger"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the configured database. Postgres in docker can take a few
// seconds to accept connections, so the open is attempted DBConnectAttempts times.
func Connect(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	attempts := cfg.DBConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var db *gorm.DB
	var err error
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(dialector, gormConfig())
		if err == nil {
			log.Info("connected to database", "driver", cfg.DBDriver)
			return db, nil
		}
		log.Warn("database connection attempt failed", "attempt", i+1, "error", err)
		if i < attempts-1 {
			time.Sleep(2 * time.Second)
		}
	}
	return nil, errors.Wrapf(err, "could not connect to database after %d attempts", attempts)
}

// OpenSQLite opens a SQLite database at dsn with the production gorm settings.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), gormConfig())
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
}
