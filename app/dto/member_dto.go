package dto

// CreateMemberRequest represents the request payload for registering a panel member
type CreateMemberRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=255" example:"John Smith"`
	Email        string `json:"email" validate:"required,email,max=255" example:"john@example.com"`
	MobileNumber int64  `json:"mobile_number" validate:"required,gt=0" example:"9121234567"`
	Location     string `json:"location" validate:"required,min=1,max=255" example:"Shiraz"`
}

// UpdateMemberRequest carries the fields to change; absent fields are preserved
type UpdateMemberRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=255" example:"John Smith"`
	MobileNumber *int64  `json:"mobile_number,omitempty" validate:"omitempty,gt=0" example:"9121234567"`
	Location     *string `json:"location,omitempty" validate:"omitempty,min=1,max=255" example:"Shiraz"`
}

type MemberDTO struct {
	ID           int64  `json:"id" example:"1"`
	UUID         string `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Name         string `json:"name" example:"John Smith"`
	Email        string `json:"email" example:"john@example.com"`
	MobileNumber int64  `json:"mobile_number" example:"9121234567"`
	Location     string `json:"location" example:"Shiraz"`
	CreatedAt    string `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt    string `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}
