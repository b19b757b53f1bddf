package repo

import (
	"StoreText/internal/model"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DefaultSQLiteDSN используется, когда DATABASE_URI не задан.
const DefaultSQLiteDSN = "file:relay.sqlite?_pragma=busy_timeout(5000)"

// InitDB открывает БД relay-сервера и выполняет автомиграции.
// DSN вида postgres://... или "host=... user=..." открывается драйвером Postgres,
// всё остальное считается SQLite (modernc.org/sqlite, без cgo).
func InitDB(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	var dial gorm.Dialector
	if isPostgresDSN(dsn) {
		dial = postgres.Open(dsn)
	} else {
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if !isPostgresDSN(dsn) {
		// SQLite не любит параллельных писателей
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	if err := db.AutoMigrate(&model.Site{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
