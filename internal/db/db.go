package db

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ticket-tracker-backend/config"
	"ticket-tracker-backend/internal/model"
)

// ArchivedTicketsTable is the table holding the archive partition. It reuses
// the Ticket model, so migration and queries address it by name.
const ArchivedTicketsTable = "archived_tickets"

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(dialectorFor(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate creates or updates the schema for every table, including the
// archive partition table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Ticket{},
		&model.System{},
		&model.Watchstation{},
		&model.Circuit{},
		&model.User{},
		&model.Settings{},
		&model.StoredFileHandle{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	if err := db.Table(ArchivedTicketsTable).AutoMigrate(&model.Ticket{}); err != nil {
		return fmt.Errorf("automigrate %s failed: %w", ArchivedTicketsTable, err)
	}
	return nil
}

// dialectorFor picks the gorm driver based on the DSN shape.
func dialectorFor(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}
