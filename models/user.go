package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

type User struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UUID                  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`
	Name                  string    `gorm:"size:255;not null" json:"name"`
	Email                 string    `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	MobileNumber          int64     `gorm:"not null" json:"mobile_number"`
	Location              string    `gorm:"size:255;not null" json:"location"`
	PasswordHash          string    `gorm:"size:255;not null" json:"-"`
	Role                  string    `gorm:"size:32;not null;default:'user'" json:"role"`
	WhatsappAPIToken      *string   `gorm:"size:512" json:"whatsapp_api_token,omitempty"`
	WhatsappCloudNumberID *string   `gorm:"size:64" json:"whatsapp_cloud_number_id,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u User) RecordID() int64 { return u.ID }
func (u User) RecordEmail() string { return u.Email }
func (u *User) AssignID(id int64) { u.ID = id }
func (u *User) AssignUUID(v uuid.UUID) { u.UUID = v }
