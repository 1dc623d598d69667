package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gorm.io/gorm"

	"globetrotter/internal/model"
)

// tables lists every record type in creation order; drop order is the reverse.
var tables = []interface{}{
	&model.User{},
	&model.Trip{},
	&model.Activity{},
}

// Store owns the relational database backing the service.
type Store struct {
	driver string
	dsn    string
	db     *gorm.DB
}

// NewStore opens the database described by driver and dsn.
func NewStore(driver, dsn string) (*Store, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	gormDB, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{driver: driver, dsn: dsn, db: gormDB}, nil
}

// Acquire returns a session bound to ctx. Rows read through it are decoded
// into structs by column name.
func (s *Store) Acquire(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// InitializeSchema creates the users, trips and activities tables if absent.
// It is safe to call on every start.
func (s *Store) InitializeSchema(ctx context.Context) error {
	if err := s.Acquire(ctx).AutoMigrate(tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// ResetSchema destroys all stored data and recreates the schema.
// A SQLite database file is deleted outright; server databases get their
// tables dropped. Development use only.
func (s *Store) ResetSchema(ctx context.Context) error {
	if s.driver == DriverSQLite {
		if err := s.Close(); err != nil {
			return err
		}
		if err := os.Remove(s.dsn); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove database file: %w", err)
		}
		gormDB, err := Open(s.driver, s.dsn)
		if err != nil {
			return err
		}
		s.db = gormDB
		return s.InitializeSchema(ctx)
	}

	migrator := s.Acquire(ctx).Migrator()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := migrator.DropTable(tables[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return s.InitializeSchema(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}
