// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// BaseRepository provides the record operations shared by every resource table
type BaseRepository[T any] struct {
	DB *gorm.DB
}

// NewBaseRepository creates a new base repository instance
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{
		DB: db,
	}
}

// getDB returns the connection bound to ctx
func (r *BaseRepository[T]) getDB(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx)
}

// ByID retrieves an entity by its ID
func (r *BaseRepository[T]) ByID(ctx context.Context, id int64) (*T, error) {
	db := r.getDB(ctx)

	var entity T
	err := db.Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError("find entity by ID %d", err, id)
	}

	return &entity, nil
}

// ByEmail retrieves an entity by its email address
func (r *BaseRepository[T]) ByEmail(ctx context.Context, email string) (*T, error) {
	db := r.getDB(ctx)

	var entity T
	err := db.Where("email = ?", email).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError("find entity by email", err)
	}

	return &entity, nil
}

// List returns every entity ordered by id
func (r *BaseRepository[T]) List(ctx context.Context) ([]*T, error) {
	db := r.getDB(ctx)

	var entities []*T
	if err := db.Order("id ASC").Find(&entities).Error; err != nil {
		return nil, storeError("list entities", err)
	}

	return entities, nil
}

// Save inserts a new entity
func (r *BaseRepository[T]) Save(ctx context.Context, entity *T) error {
	db := r.getDB(ctx)

	err := db.Create(entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to save entity: %w", ErrDuplicateKey)
		}
		return storeError("save entity", err)
	}

	return nil
}

// UpdateFields sets the given columns on the row with the given id.
// Only rows where at least one column differs are touched, so an update that
// submits the stored values verbatim affects zero rows.
func (r *BaseRepository[T]) UpdateFields(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}

	db := r.getDB(ctx)

	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	conditions := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		conditions = append(conditions, column+" IS DISTINCT FROM ?")
		args = append(args, fields[column])
	}

	var entity T
	result := db.Model(&entity).
		Where("id = ?", id).
		Where("("+strings.Join(conditions, " OR ")+")", args...).
		Updates(fields)
	if result.Error != nil {
		return 0, storeError("update entity %d", result.Error, id)
	}

	return result.RowsAffected, nil
}

// DeleteByID hard-deletes the row with the given id
func (r *BaseRepository[T]) DeleteByID(ctx context.Context, id int64) (int64, error) {
	db := r.getDB(ctx)

	var entity T
	result := db.Where("id = ?", id).Delete(&entity)
	if result.Error != nil {
		return 0, storeError("delete entity %d", result.Error, id)
	}

	return result.RowsAffected, nil
}

func storeError(action string, err error, args ...any) error {
	return fmt.Errorf("%w: failed to %s: %v", ErrStoreUnavailable, fmt.Sprintf(action, args...), err)
}
