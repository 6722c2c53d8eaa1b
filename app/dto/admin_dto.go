// Package dto
package dto

// CreateAdminRequest represents the request payload for creating an administrator.
// Password is optional; a random one is generated and stored hashed when omitted.
type CreateAdminRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=255" example:"Jane Doe"`
	Email        string  `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	MobileNumber int64   `json:"mobile_number" validate:"required,gt=0" example:"9123456789"`
	Location     string  `json:"location" validate:"required,min=1,max=255" example:"Tehran"`
	Password     *string `json:"password,omitempty" validate:"omitempty,min=8,max=72" example:"SecurePass123!"`
}

// UpdateAdminRequest carries the fields to change; absent fields are preserved
type UpdateAdminRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=255" example:"Jane Doe"`
	MobileNumber *int64  `json:"mobile_number,omitempty" validate:"omitempty,gt=0" example:"9123456789"`
	Location     *string `json:"location,omitempty" validate:"omitempty,min=1,max=255" example:"Tehran"`
}

type AdminDTO struct {
	ID           int64  `json:"id" example:"1"`
	UUID         string `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Name         string `json:"name" example:"Jane Doe"`
	Email        string `json:"email" example:"jane@example.com"`
	MobileNumber int64  `json:"mobile_number" example:"9123456789"`
	Location     string `json:"location" example:"Tehran"`
	CreatedAt    string `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt    string `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}
