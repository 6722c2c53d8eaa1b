// Package models contains the persisted entities of the panel registry
package models

import (
	"time"

	"github.com/google/uuid"
)

type Admin struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_admins_uuid" json:"uuid"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uk_admins_email" json:"email"`
	MobileNumber int64     `gorm:"not null" json:"mobile_number"`
	Location     string    `gorm:"size:255;not null" json:"location"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_admins_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}

func (a Admin) RecordID() int64 { return a.ID }
func (a Admin) RecordEmail() string { return a.Email }
func (a *Admin) AssignID(id int64) { a.ID = id }
func (a *Admin) AssignUUID(u uuid.UUID) { a.UUID = u }
