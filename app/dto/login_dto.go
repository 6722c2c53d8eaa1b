// Package dto contains Data Transfer Objects for API request and response structures
package dto

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"user@example.com"`
	Password string `json:"password" validate:"required,max=72" example:"SecurePass123!"`
}

// LoginResponse represents the successful login payload
type LoginResponse struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string  `json:"token_type" example:"Bearer"`
	ExpiresIn   int     `json:"expires_in" example:"86400"`
}

// PasswordResetRequest represents the request to replace a user's password.
// The length rule is enforced by the reset flow so the caller gets its exact message.
type PasswordResetRequest struct {
	NewPassword string `json:"new_password" validate:"max=72" example:"NewSecurePass123!"`
}

// DeleteResponse is returned after a record has been removed
type DeleteResponse struct {
	ID int64 `json:"id" example:"1"`
}
