package tracker

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Store handles persistence of users, statuses, labels and tasks using GORM
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the required database tables
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&User{}, &Status{}, &Label{}, &Task{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}

// Ping checks that the database answers
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// get loads a row by primary key, mapping a missing row to ErrNotFound
func get[T any](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var row T
	if err := db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// list loads every row of a table ordered by id
func list[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	var rows []T
	if err := db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// exists counts rows matching id
func exists[T any](db *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := db.Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// taken reports whether another row (id != exceptID) already holds value in a
// unique column
func taken[T any](db *gorm.DB, column, value string, exceptID uint) (bool, error) {
	var count int64
	query := db.Model(new(T)).Where(column+" = ?", value)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// countTasks counts tasks matching a condition
func countTasks(db *gorm.DB, query string, args ...any) (int64, error) {
	var count int64
	err := db.Model(&Task{}).Where(query, args...).Count(&count).Error
	return count, err
}

// translate maps driver level unique violations onto ErrDuplicate
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
