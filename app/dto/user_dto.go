package dto

// CreateUserRequest represents the request payload for creating a user
type CreateUserRequest struct {
	Name                  string  `json:"name" validate:"required,min=1,max=255" example:"Sara Karimi"`
	Email                 string  `json:"email" validate:"required,email,max=255" example:"sara@example.com"`
	MobileNumber          int64   `json:"mobile_number" validate:"required,gt=0" example:"9351234567"`
	Location              string  `json:"location" validate:"required,min=1,max=255" example:"Isfahan"`
	Password              string  `json:"password" validate:"required,min=8,max=72" example:"SecurePass123!"`
	Role                  string  `json:"role,omitempty" validate:"omitempty,oneof=user admin" example:"user"`
	WhatsappAPIToken      *string `json:"whatsapp_api_token,omitempty" validate:"omitempty,max=512"`
	WhatsappCloudNumberID *string `json:"whatsapp_cloud_number_id,omitempty" validate:"omitempty,max=64" example:"106540352242922"`
}

// UpdateUserRequest carries the fields to change; absent fields are preserved.
// Credentials change only through the password reset endpoint.
type UpdateUserRequest struct {
	Name                  *string `json:"name,omitempty" validate:"omitempty,min=1,max=255" example:"Sara Karimi"`
	MobileNumber          *int64  `json:"mobile_number,omitempty" validate:"omitempty,gt=0" example:"9351234567"`
	Location              *string `json:"location,omitempty" validate:"omitempty,min=1,max=255" example:"Isfahan"`
	Role                  *string `json:"role,omitempty" validate:"omitempty,oneof=user admin" example:"admin"`
	WhatsappAPIToken      *string `json:"whatsapp_api_token,omitempty" validate:"omitempty,max=512"`
	WhatsappCloudNumberID *string `json:"whatsapp_cloud_number_id,omitempty" validate:"omitempty,max=64" example:"106540352242922"`
}

type UserDTO struct {
	ID                    int64   `json:"id" example:"1"`
	UUID                  string  `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Name                  string  `json:"name" example:"Sara Karimi"`
	Email                 string  `json:"email" example:"sara@example.com"`
	MobileNumber          int64   `json:"mobile_number" example:"9351234567"`
	Location              string  `json:"location" example:"Isfahan"`
	Role                  string  `json:"role" example:"user"`
	WhatsappCloudNumberID *string `json:"whatsapp_cloud_number_id,omitempty" example:"106540352242922"`
	CreatedAt             string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt             string  `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}
