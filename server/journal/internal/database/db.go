// Package database wires up the sqlite store behind the journal service.
package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
)

// Open connects to the sqlite database file and migrates the schema.
func Open(path string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			IgnoreRecordNotFoundError: true,
			LogLevel:                  logger.Warn,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// sqlite tolerates a single writer; keep the pool small.
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every journal table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&journal.Substation{},
		&journal.Cell{},
		&journal.Line{},
		&journal.Tp{},
		&journal.OutageReason{},
		&journal.OutageEvent{},
		&journal.EventLine{},
		&journal.EventTp{},
		&journal.TopologySwitch{},
		&journal.User{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
