package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultTTL keeps a session alive for two weeks after its last save
const DefaultTTL = 14 * 24 * time.Hour

// ErrNotFound is returned for unknown, malformed or expired session ids
var ErrNotFound = errors.New("session not found")

// Store handles session persistence using GORM
type Store struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewStore creates a session store. A non-positive ttl selects DefaultTTL
func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{db: db, ttl: ttl, now: time.Now}
}

// TTL returns how long an untouched session lives
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Migrate creates or updates the sessions table
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Session{}); err != nil {
		return fmt.Errorf("failed to migrate sessions: %w", err)
	}
	return nil
}

// New creates and persists an anonymous session
func (s *Store) New(ctx context.Context) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        uuid.New(),
		CSRFToken: token,
		ExpiresAt: s.now().Add(s.ttl),
	}

	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// Get loads a live session by the id stored in the cookie
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var sess Session
	result := s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", sessionID, s.now()).
		First(&sess)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", result.Error)
	}

	return &sess, nil
}

// Save persists the session and slides its expiry forward
func (s *Store) Save(ctx context.Context, sess *Session) error {
	sess.ExpiresAt = s.now().Add(s.ttl)
	if err := s.db.WithContext(ctx).Save(sess).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Rotate replaces the session with a fresh id and CSRF token, keeping the
// language and pending messages. Used on login and logout
func (s *Store) Rotate(ctx context.Context, old *Session, userID uint) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        uuid.New(),
		CSRFToken: token,
		ExpiresAt: s.now().Add(s.ttl),
		UserID:    userID,
		Language:  old.Language,
		Flashes:   old.Flashes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Session{}, "id = ?", old.ID).Error; err != nil {
			return err
		}
		return tx.Create(sess).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}

	return sess, nil
}

// DestroyUser removes every session of a user
func (s *Store) DestroyUser(ctx context.Context, userID uint) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

// PurgeExpired deletes sessions past their expiry and reports how many
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// newToken returns 32 random bytes hex encoded
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
