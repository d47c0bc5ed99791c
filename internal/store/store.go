// Package store holds the durable collection of user records behind a single
// interface, with in-memory, Postgres and Mongo backends.
package store

import (
	"context"
	"errors"

	"github.com/wuwenbin0122/user-console/internal/models"
)

// ErrNotFound is returned when an operation targets an id that is not stored.
var ErrNotFound = errors.New("store: user not found")

// UserStore persists user records. List returns records in insertion order.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user models.User) error
	UpdateRole(ctx context.Context, id, role string) (models.User, error)
	Delete(ctx context.Context, id string) error
}
