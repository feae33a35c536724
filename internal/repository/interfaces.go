package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/onboard/internal/domain"
)

// ErrNotFound is returned when a requested key or record does not exist.
var ErrNotFound = errors.New("not found")

// Entry is one key-value pair in the local store.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// LocalStore is a small persistent key-value store, the client-side
// equivalent of browser local storage.
type LocalStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	All(ctx context.Context) ([]Entry, error)
}

// Completion records a session that reached the completed state locally.
type Completion struct {
	ID          string
	UserID      string
	UserType    domain.UserType
	Saved       bool
	Error       string
	CompletedAt time.Time
}

type CompletionRepo interface {
	Create(ctx context.Context, c *Completion) error
	Latest(ctx context.Context, userID string) (*Completion, error)
	ListByUser(ctx context.Context, userID string) ([]*Completion, error)
}
