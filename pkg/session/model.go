package session

import (
	"time"

	"github.com/google/uuid"
)

// Flash levels, mirrored by the bootstrap alert classes in the templates
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "danger"
)

// Flash is a one-shot message shown on the next rendered page. Message holds
// the untranslated message id
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Session is the server side state behind the session cookie
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"column:expires_at;index;not null"`

	UserID    uint    `json:"user_id" gorm:"column:user_id;index"`
	Language  string  `json:"language" gorm:"column:language;size:16"`
	CSRFToken string  `json:"-" gorm:"column:csrf_token;size:64;not null"`
	Flashes   []Flash `json:"flashes" gorm:"column:flashes;serializer:json;type:text"`
}

// TableName sets the table name for GORM
func (Session) TableName() string {
	return "web_sessions"
}

// IsAuthenticated reports whether a user is logged in on this session
func (s *Session) IsAuthenticated() bool {
	return s.UserID != 0
}

// AddFlash queues a message for the next page
func (s *Session) AddFlash(level, message string) {
	s.Flashes = append(s.Flashes, Flash{Level: level, Message: message})
}

// PopFlashes returns and clears the queued messages
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}
