package tracker

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ListUsers returns all users ordered by id
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	users, err := list[User](ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by id
func (s *Store) GetUser(ctx context.Context, id uint) (*User, error) {
	return get[User](ctx, s.db, id)
}

// GetUserByUsername retrieves a user by exact username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UsernameTaken reports whether a different user already has the username
func (s *Store) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	return taken[User](s.db.WithContext(ctx), "username", username, exceptID)
}

// CreateUser inserts a user. The password hash must already be set
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	if user.Username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if user.PasswordHash == "" {
		return fmt.Errorf("password cannot be empty")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dup, err := taken[User](tx, "username", user.Username, 0)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if dup {
			return ErrDuplicate
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", translate(err))
		}
		return nil
	})
}

// UpdateUser saves the username, names and password hash of an existing user
func (s *Store) UpdateUser(ctx context.Context, user *User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists[User](tx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if !found {
			return ErrNotFound
		}

		dup, err := taken[User](tx, "username", user.Username, user.ID)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if dup {
			return ErrDuplicate
		}

		if err := tx.Model(&User{ID: user.ID}).Updates(map[string]any{
			"username":      user.Username,
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"password_hash": user.PasswordHash,
		}).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", translate(err))
		}
		return nil
	})
}

// DeleteUser removes a user who neither authors nor executes any task
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists[User](tx, id)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if !found {
			return ErrNotFound
		}

		count, err := countTasks(tx, "author_id = ? OR executor_id = ?", id, id)
		if err != nil {
			return fmt.Errorf("failed to count user tasks: %w", err)
		}
		if count > 0 {
			return ErrInUse
		}

		if err := tx.Delete(&User{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// Authenticate checks a username and password pair
func (s *Store) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
