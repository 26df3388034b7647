package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// withRelations preloads everything a task page shows
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Status").
		Preload("Author").
		Preload("Executor").
		Preload("Labels", func(db *gorm.DB) *gorm.DB {
			return db.Order("labels.id")
		})
}

// ListTasks returns the tasks matching the filter ordered by id
func (s *Store) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	var tasks []Task

	db := s.db.WithContext(ctx)
	query := withRelations(db.Model(&Task{}))
	query = filter.apply(query, db)

	if err := query.Order("tasks.id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask retrieves a task with its status, users and labels
func (s *Store) GetTask(ctx context.Context, id uint) (*Task, error) {
	var task Task
	if err := withRelations(s.db.WithContext(ctx)).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// TaskNameTaken reports whether another task already has the name
func (s *Store) TaskNameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	return taken[Task](s.db.WithContext(ctx), "name", name, exceptID)
}

// CreateTask inserts a task and attaches the labels. StatusID, AuthorID and
// ExecutorID must point at existing rows
func (s *Store) CreateTask(ctx context.Context, task *Task, labelIDs []uint) error {
	if task.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dup, err := taken[Task](tx, "name", task.Name, 0)
		if err != nil {
			return fmt.Errorf("failed to check name: %w", err)
		}
		if dup {
			return ErrDuplicate
		}

		if err := checkUser(tx, task.AuthorID, "author"); err != nil {
			return err
		}

		labels, err := checkReferences(tx, task, labelIDs)
		if err != nil {
			return err
		}

		task.Labels = nil
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return fmt.Errorf("failed to create task: %w", translate(err))
		}

		if len(labels) > 0 {
			if err := tx.Model(task).Association("Labels").Append(labels); err != nil {
				return fmt.Errorf("failed to attach labels: %w", err)
			}
		}
		task.Labels = labels

		return nil
	})
}

// UpdateTask saves the name, description, status, executor and labels of an
// existing task. The author never changes
func (s *Store) UpdateTask(ctx context.Context, task *Task, labelIDs []uint) error {
	if task.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Task
		if err := tx.First(&existing, task.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get task: %w", err)
		}

		dup, err := taken[Task](tx, "name", task.Name, task.ID)
		if err != nil {
			return fmt.Errorf("failed to check name: %w", err)
		}
		if dup {
			return ErrDuplicate
		}

		labels, err := checkReferences(tx, task, labelIDs)
		if err != nil {
			return err
		}

		if err := tx.Model(&existing).Updates(map[string]any{
			"name":        task.Name,
			"description": task.Description,
			"status_id":   task.StatusID,
			"executor_id": task.ExecutorID,
		}).Error; err != nil {
			return fmt.Errorf("failed to update task: %w", translate(err))
		}

		association := tx.Model(&existing).Association("Labels")
		if len(labels) == 0 {
			err = association.Clear()
		} else {
			err = association.Replace(labels)
		}
		if err != nil {
			return fmt.Errorf("failed to replace labels: %w", err)
		}

		task.AuthorID = existing.AuthorID
		task.CreatedAt = existing.CreatedAt
		task.Labels = labels

		return nil
	})
}

// DeleteTask removes a task and its label links
func (s *Store) DeleteTask(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task Task
		if err := tx.First(&task, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get task: %w", err)
		}

		if err := tx.Model(&task).Association("Labels").Clear(); err != nil {
			return fmt.Errorf("failed to detach labels: %w", err)
		}

		if err := tx.Delete(&task).Error; err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}

// checkUser verifies a user reference
func checkUser(tx *gorm.DB, id uint, role string) error {
	found, err := exists[User](tx, id)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", role, err)
	}
	if !found {
		return fmt.Errorf("%w: %s %d", ErrInvalidReference, role, id)
	}
	return nil
}

// checkReferences verifies the status, executor and labels of a task and
// returns the labels in id order
func checkReferences(tx *gorm.DB, task *Task, labelIDs []uint) ([]Label, error) {
	found, err := exists[Status](tx, task.StatusID)
	if err != nil {
		return nil, fmt.Errorf("failed to check status: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidReference, task.StatusID)
	}

	if err := checkUser(tx, task.ExecutorID, "executor"); err != nil {
		return nil, err
	}

	ids := slices.Clone(labelIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	labels := []Label{}
	if len(ids) == 0 {
		return labels, nil
	}

	if err := tx.Where("id IN ?", ids).Order("id").Find(&labels).Error; err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	if len(labels) != len(ids) {
		return nil, fmt.Errorf("%w: label", ErrInvalidReference)
	}

	return labels, nil
}
