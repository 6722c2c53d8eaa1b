package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/panel-registry/models"
	"github.com/amirphl/panel-registry/utils"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements UserRepository interface
type UserRepositoryImpl struct {
	*BaseRepository[models.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.User](db),
	}
}

// UpdatePassword replaces the stored password hash in place
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	db := r.getDB(ctx)

	result := db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    utils.UTCNow(),
		})
	if result.Error != nil {
		return storeError("update password of user %d", result.Error, userID)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d not found", userID)
	}

	return nil
}
