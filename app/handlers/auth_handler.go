package handlers

import (
	"log"
	"net/url"
	"time"

	"github.com/amirphl/panel-registry/app/dto"
	businessflow "github.com/amirphl/panel-registry/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for credential handlers
type AuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	ResetPassword(c fiber.Ctx) error
}

// AuthHandler handles login and password reset requests
type AuthHandler struct {
	loginFlow      businessflow.LoginFlow
	validator      *validator.Validate
	requestTimeout time.Duration
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(loginFlow businessflow.LoginFlow, requestTimeout time.Duration) AuthHandlerInterface {
	return &AuthHandler{
		loginFlow:      loginFlow,
		validator:      validator.New(),
		requestTimeout: requestTimeout,
	}
}

// Login handles user login requests
// @Summary User Login
// @Description Authenticate a user with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login Successful"
// @Failure 401 {object} dto.APIResponse "Invalid email or password"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 422 {object} dto.APIResponse "Validation failed"
// @Failure 429 {object} dto.APIResponse "Too many failed attempts"
// @Router /api/v1/login/ [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusUnprocessableEntity, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := createRequestContext(c, "/api/v1/login/", h.requestTimeout)
	defer cancel()

	result, err := h.loginFlow.Login(ctx, &req, clientMetadata(c))
	if err != nil {
		code := businessErrorCode(err, "LOGIN_FAILED")
		message := businessflow.MessageOf(err, "Login failed")

		switch {
		case businessflow.IsTooManyLoginAttempts(err):
			return ErrorResponse(c, fiber.StatusTooManyRequests, message, code, nil)
		case businessflow.IsUserNotFound(err):
			return ErrorResponse(c, fiber.StatusNotFound, message, code, nil)
		case businessflow.IsIncorrectPassword(err):
			return ErrorResponse(c, fiber.StatusUnauthorized, message, code, nil)
		case businessflow.IsStoreUnavailable(err):
			log.Println("Login failed", err)
			return ErrorResponse(c, fiber.StatusServiceUnavailable, message, code, nil)
		}
		log.Println("Login failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Login Successful", result)
}

// ResetPassword replaces the password of the user identified by the path email
// @Summary Reset Password
// @Description Replace a user's password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Param request body dto.PasswordResetRequest true "New password"
// @Success 200 {object} dto.APIResponse "Password reset successful"
// @Failure 404 {object} dto.APIResponse "User with the given email not found"
// @Failure 422 {object} dto.APIResponse "Password must be at least 8 characters long"
// @Router /api/v1/password_reset/{email} [put]
func (h *AuthHandler) ResetPassword(c fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil || email == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid email", "INVALID_EMAIL", nil)
	}

	var req dto.PasswordResetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusUnprocessableEntity, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := createRequestContext(c, "/api/v1/password_reset/", h.requestTimeout)
	defer cancel()

	if err := h.loginFlow.ResetPassword(ctx, email, &req, clientMetadata(c)); err != nil {
		code := businessErrorCode(err, "PASSWORD_RESET_FAILED")
		message := businessflow.MessageOf(err, "Failed to reset password")

		switch {
		case businessflow.IsUserNotFound(err):
			return ErrorResponse(c, fiber.StatusNotFound, message, code, nil)
		case businessflow.IsWeakPassword(err):
			return ErrorResponse(c, fiber.StatusUnprocessableEntity, message, code, nil)
		case businessflow.IsStoreUnavailable(err):
			log.Println("Password reset failed", err)
			return ErrorResponse(c, fiber.StatusServiceUnavailable, message, code, nil)
		}
		log.Println("Password reset failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Password reset successful", nil)
}
