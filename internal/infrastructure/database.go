package infrastructure

import (
	"context"
	"fmt"

	"github.com/mmbazm/device-api/config"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	*gorm.DB
}

// NewDatabase opens a pooled connection to the service database.
func NewDatabase(cfg config.DatabaseConfig) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Database{DB: db}, nil
}

// EnsureDatabase creates the service database if it does not exist yet.
// It connects to the maintenance database, checks the catalog with a
// parameterized query, and issues CREATE DATABASE with a quoted identifier.
// Safe to call on every startup.
func EnsureDatabase(cfg config.DatabaseConfig, log *logrus.Logger) error {
	admin, err := gorm.Open(postgres.Open(cfg.DSNFor("postgres")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to maintenance database: %w", err)
	}
	sqlDB, err := admin.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	var exists int
	err = admin.Raw("SELECT 1 FROM pg_catalog.pg_database WHERE datname = ?", cfg.Name).
		Scan(&exists).Error
	if err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}

	if exists == 1 {
		log.WithField("database", cfg.Name).Info("Database exists")
		return nil
	}

	// CREATE DATABASE does not accept bind parameters; the name is quoted
	// as an identifier instead.
	stmt := fmt.Sprintf("CREATE DATABASE %s", admin.Statement.Quote(cfg.Name))
	if err := admin.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	log.WithField("database", cfg.Name).Info("Database created")
	return nil
}

// Migrate applies the schema for the given models. Idempotent.
func (d *Database) Migrate(models ...interface{}) error {
	return d.AutoMigrate(models...)
}

// Close gracefully terminates the database connection.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithContext is a helper to pass context to GORM operations.
func (d *Database) WithContext(ctx context.Context) *gorm.DB {
	return d.DB.WithContext(ctx)
}
