// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/amirphl/panel-registry/models"
)

var (
	// ErrStoreUnavailable marks failures of the backing store itself (connection, timeout, driver errors).
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Repository is the record-level contract shared by admins, members and users.
// ByID and ByEmail return (nil, nil) when nothing matches.
type Repository[T any] interface {
	ByID(ctx context.Context, id int64) (*T, error)
	ByEmail(ctx context.Context, email string) (*T, error)
	List(ctx context.Context) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	// UpdateFields applies a partial update and reports how many rows actually changed.
	// A row whose stored values already equal the submitted ones is not counted.
	UpdateFields(ctx context.Context, id int64, fields map[string]any) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// SequenceRepository hands out per-key monotonically increasing identifiers
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
	Current(ctx context.Context, name string) (int64, error)
}

// AdminRepository defines operations for admins
type AdminRepository interface {
	Repository[models.Admin]
}

// MemberRepository defines operations for panel members
type MemberRepository interface {
	Repository[models.Member]
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User]
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}
