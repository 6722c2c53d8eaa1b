package models

import (
	"time"

	"github.com/google/uuid"
)

// Member is a panel member. Members carry no credential.
type Member struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_members_uuid" json:"uuid"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uk_members_email" json:"email"`
	MobileNumber int64     `gorm:"not null" json:"mobile_number"`
	Location     string    `gorm:"size:255;not null" json:"location"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_members_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

func (m Member) RecordID() int64 { return m.ID }
func (m Member) RecordEmail() string { return m.Email }
func (m *Member) AssignID(id int64) { m.ID = id }
func (m *Member) AssignUUID(u uuid.UUID) { m.UUID = u }
