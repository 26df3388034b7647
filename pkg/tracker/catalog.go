package tracker

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// named is implemented by the two lookup tables tasks point at by name
type named interface {
	Status | Label
}

// ListStatuses returns all statuses ordered by id
func (s *Store) ListStatuses(ctx context.Context) ([]Status, error) {
	statuses, err := list[Status](ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	return statuses, nil
}

// GetStatus retrieves a status by id
func (s *Store) GetStatus(ctx context.Context, id uint) (*Status, error) {
	return get[Status](ctx, s.db, id)
}

// StatusNameTaken reports whether another status already has the name
func (s *Store) StatusNameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	return taken[Status](s.db.WithContext(ctx), "name", name, exceptID)
}

// CreateStatus inserts a status with a unique name
func (s *Store) CreateStatus(ctx context.Context, status *Status) error {
	return createNamed(ctx, s.db, status, status.Name)
}

// UpdateStatus renames a status
func (s *Store) UpdateStatus(ctx context.Context, status *Status) error {
	return renameNamed[Status](ctx, s.db, status.ID, status.Name)
}

// DeleteStatus removes a status no task is in
func (s *Store) DeleteStatus(ctx context.Context, id uint) error {
	return deleteNamed[Status](ctx, s.db, id, func(tx *gorm.DB) (int64, error) {
		return countTasks(tx, "status_id = ?", id)
	})
}

// ListLabels returns all labels ordered by id
func (s *Store) ListLabels(ctx context.Context) ([]Label, error) {
	labels, err := list[Label](ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return labels, nil
}

// GetLabel retrieves a label by id
func (s *Store) GetLabel(ctx context.Context, id uint) (*Label, error) {
	return get[Label](ctx, s.db, id)
}

// LabelNameTaken reports whether another label already has the name
func (s *Store) LabelNameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	return taken[Label](s.db.WithContext(ctx), "name", name, exceptID)
}

// CreateLabel inserts a label with a unique name
func (s *Store) CreateLabel(ctx context.Context, label *Label) error {
	return createNamed(ctx, s.db, label, label.Name)
}

// UpdateLabel renames a label
func (s *Store) UpdateLabel(ctx context.Context, label *Label) error {
	return renameNamed[Label](ctx, s.db, label.ID, label.Name)
}

// DeleteLabel removes a label no task carries
func (s *Store) DeleteLabel(ctx context.Context, id uint) error {
	return deleteNamed[Label](ctx, s.db, id, func(tx *gorm.DB) (int64, error) {
		var count int64
		err := tx.Table("task_labels").Where("label_id = ?", id).Count(&count).Error
		return count, err
	})
}

func createNamed[T named](ctx context.Context, db *gorm.DB, row *T, name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dup, err := taken[T](tx, "name", name, 0)
		if err != nil {
			return fmt.Errorf("failed to check name: %w", err)
		}
		if dup {
			return ErrDuplicate
		}

		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create %T: %w", *row, translate(err))
		}
		return nil
	})
}

func renameNamed[T named](ctx context.Context, db *gorm.DB, id uint, name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists[T](tx, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		dup, err := taken[T](tx, "name", name, id)
		if err != nil {
			return fmt.Errorf("failed to check name: %w", err)
		}
		if dup {
			return ErrDuplicate
		}

		if err := tx.Model(new(T)).Where("id = ?", id).Update("name", name).Error; err != nil {
			return fmt.Errorf("failed to rename: %w", translate(err))
		}
		return nil
	})
}

func deleteNamed[T named](ctx context.Context, db *gorm.DB, id uint, usage func(tx *gorm.DB) (int64, error)) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists[T](tx, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		count, err := usage(tx)
		if err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}
		if count > 0 {
			return ErrInUse
		}

		if err := tx.Delete(new(T), id).Error; err != nil {
			return fmt.Errorf("failed to delete: %w", err)
		}
		return nil
	})
}
