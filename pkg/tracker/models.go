package tracker

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for new password hashes
var PasswordCost = bcrypt.DefaultCost

// User is a registered account. Users author and execute tasks
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	Username     string `json:"username" gorm:"column:username;uniqueIndex;not null;size:150"`
	FirstName    string `json:"first_name" gorm:"column:first_name;size:150"`
	LastName     string `json:"last_name" gorm:"column:last_name;size:150"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null;size:255"`
}

// FullName joins first and last name, falling back to the username
func (u User) FullName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

func (u User) String() string {
	return fmt.Sprintf("user %d - %s, full name %s", u.ID, u.Username, u.FullName())
}

// SetPassword stores a bcrypt hash of the raw password
func (u *User) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), PasswordCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether raw matches the stored hash
func (u User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}

// Status is the workflow state of a task ("new", "in progress", ...)
type Status struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	Name string `json:"name" gorm:"column:name;uniqueIndex;not null;size:100"`
}

func (s Status) String() string { return s.Name }

// Label is a free-form tag attached to any number of tasks
type Label struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	Name string `json:"name" gorm:"column:name;uniqueIndex;not null;size:100"`
}

func (l Label) String() string { return l.Name }

// Task is a unit of work with an author, an executor and a status
type Task struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	Name        string `json:"name" gorm:"column:name;uniqueIndex;not null;size:100"`
	Description string `json:"description" gorm:"column:description;type:text"`

	StatusID   uint `json:"status_id" gorm:"column:status_id;not null;index"`
	AuthorID   uint `json:"author_id" gorm:"column:author_id;not null;index"`
	ExecutorID uint `json:"executor_id" gorm:"column:executor_id;not null;index"`

	Status   Status  `json:"status" gorm:"foreignKey:StatusID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Author   User    `json:"author" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Executor User    `json:"executor" gorm:"foreignKey:ExecutorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Labels   []Label `json:"labels" gorm:"many2many:task_labels"`
}

func (t Task) String() string { return t.Name }

// LabelIDs returns the ids of the task's labels in order
func (t Task) LabelIDs() []uint {
	ids := make([]uint, 0, len(t.Labels))
	for _, label := range t.Labels {
		ids = append(ids, label.ID)
	}
	return ids
}

// HasLabel reports whether the label is attached to the task
func (t Task) HasLabel(id uint) bool {
	for _, label := range t.Labels {
		if label.ID == id {
			return true
		}
	}
	return false
}
