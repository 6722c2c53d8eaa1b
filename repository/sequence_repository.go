package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/panel-registry/models"
	"gorm.io/gorm"
)

// nextSequenceSQL creates the counter at 1 or bumps it by one in a single statement,
// so concurrent callers can never observe the same value.
const nextSequenceSQL = `INSERT INTO sequence_counters (name, last_value, created_at, updated_at)
VALUES (?, 1, NOW(), NOW())
ON CONFLICT (name) DO UPDATE
SET last_value = sequence_counters.last_value + 1, updated_at = NOW()
RETURNING last_value`

// SequenceRepositoryImpl implements SequenceRepository on the sequence_counters table
type SequenceRepositoryImpl struct {
	*BaseRepository[models.SequenceCounter]
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &SequenceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SequenceCounter](db),
	}
}

// Next returns the post-increment value of the named counter
func (r *SequenceRepositoryImpl) Next(ctx context.Context, name string) (int64, error) {
	db := r.getDB(ctx)

	var value int64
	result := db.Raw(nextSequenceSQL, name).Scan(&value)
	if result.Error != nil {
		return 0, storeError("draw next value of sequence %s", result.Error, name)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%w: sequence %s returned no value", ErrStoreUnavailable, name)
	}

	return value, nil
}

// Current returns the last value handed out for the named counter, or 0 if it was never used
func (r *SequenceRepositoryImpl) Current(ctx context.Context, name string) (int64, error) {
	db := r.getDB(ctx)

	var counter models.SequenceCounter
	err := db.Where("name = ?", name).First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, storeError("read sequence %s", err, name)
	}

	return counter.LastValue, nil
}
