// Package store persists users, preferences, and feedback in sqlite via gorm.
//
// Uniqueness invariants (one preferences record per user, one vote per
// (user, feedback type, item)) are enforced by unique indexes at the storage
// layer, so concurrent writes from the same user resolve last-write-wins
// without application locking.
package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coinboard/coinboard/internal/models"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when signup hits the email unique index.
var ErrDuplicateEmail = errors.New("email already registered")

// Store wraps the database handle with typed accessors.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open opens (or creates) the sqlite database at path and migrates the
// schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Preferences{}, &models.Feedback{}); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}

	logger.Info("database ready", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
