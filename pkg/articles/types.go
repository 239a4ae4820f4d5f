package articles

import (
	"errors"
	"strings"
)

// Status is the lifecycle state of an article.
type Status string

const (
	StatusPublish Status = "Publish"
	StatusDraft   Status = "Draft"
	StatusTrash   Status = "Trash"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPublish, StatusDraft, StatusTrash}

// ErrInvalidStatus is the page-level domain error for unknown statuses.
var ErrInvalidStatus = errors.New("Status must be Publish, Draft, or Trash.")

// ErrNotPublished is returned by the published-only lookups.
var ErrNotPublished = errors.New("Not a published article")

// Valid reports whether s is one of Publish, Draft or Trash.
func (s Status) Valid() bool {
	switch s {
	case StatusPublish, StatusDraft, StatusTrash:
		return true
	default:
		return false
	}
}

// ParseStatus validates raw as a status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Article mirrors the backend entity. Ids are assigned by the backend.
type Article struct {
	ID       int64  `json:"id,omitempty"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Status   Status `json:"status"`
}

// CreateDTO is the create payload; the backend expects capitalized keys.
type CreateDTO struct {
	Title    string `json:"Title"`
	Content  string `json:"Content"`
	Category string `json:"Category"`
	Status   Status `json:"Status"`
}

// UpdateDTO carries only the fields to change; nil fields are omitted.
type UpdateDTO struct {
	Title    *string `json:"Title,omitempty"`
	Content  *string `json:"Content,omitempty"`
	Category *string `json:"Category,omitempty"`
	Status   *Status `json:"Status,omitempty"`
}

// ListParams pages through a listing. Zero Limit means the default of 10.
type ListParams struct {
	Limit  int
	Offset int
}

// DefaultLimit is the page size used when ListParams.Limit is zero.
const DefaultLimit = 10

func (p ListParams) normalized() ListParams {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Result carries either data or an error message; it never panics or returns
// a Go error for remote failures.
type Result[T any] struct {
	Data  T      `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Error == ""
}

// Err converts the message into an error, nil on success.
func (r Result[T]) Err() error {
	if r.Error == "" {
		return nil
	}
	return errors.New(r.Error)
}

func failure[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}

// Ptr is a helper for building UpdateDTO values.
func Ptr[T any](v T) *T {
	return &v
}
