package repository

import (
	"github.com/amirphl/panel-registry/models"
	"gorm.io/gorm"
)

// MemberRepositoryImpl implements MemberRepository interface
type MemberRepositoryImpl struct {
	*BaseRepository[models.Member]
}

// NewMemberRepository creates a new panel member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &MemberRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Member](db),
	}
}
