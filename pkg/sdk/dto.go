package sdk

import (
	"net/url"
	"strconv"
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func NewFailResponse(code int, message string) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusFail,
		Code:    code,
		Message: message,
	}
}

func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Resources */

// User is a registered account. Password data never leaves the server
type User struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// Status is a task workflow state
type Status struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
}

// Label is a tag attached to tasks
type Label struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
}

// Task is a unit of work with its related rows inlined
type Task struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      Status  `json:"status"`
	Author      User    `json:"author"`
	Executor    User    `json:"executor"`
	Labels      []Label `json:"labels"`
}

/** Queries */

// TaskQuery narrows a task listing. Zero fields are left out
type TaskQuery struct {
	Status   uint
	Executor uint
	Label    uint
	Author   uint
}

// Values encodes the query as URL parameters
func (q TaskQuery) Values() url.Values {
	values := url.Values{}
	set := func(key string, id uint) {
		if id != 0 {
			values.Set(key, strconv.FormatUint(uint64(id), 10))
		}
	}

	set("status", q.Status)
	set("executor", q.Executor)
	set("label", q.Label)
	set("author", q.Author)
	return values
}
