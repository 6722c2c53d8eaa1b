package businessflow

import (
	"context"
	"log"

	"github.com/amirphl/panel-registry/app/dto"
	"github.com/amirphl/panel-registry/app/services"
	"github.com/amirphl/panel-registry/repository"
	"golang.org/x/crypto/bcrypt"
)

// LoginFlow handles user authentication and password reset operations
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	ResetPassword(ctx context.Context, email string, request *dto.PasswordResetRequest, metadata *ClientMetadata) error
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo          repository.UserRepository
	tokenService      services.TokenService
	attempts          *LoginAttemptLimiter
	passwordMinLength int
	bcryptCost        int
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	userRepo repository.UserRepository,
	tokenService services.TokenService,
	attempts *LoginAttemptLimiter,
	passwordMinLength int,
	bcryptCost int,
) LoginFlow {
	if passwordMinLength <= 0 {
		passwordMinLength = DefaultPasswordMinLength
	}
	return &LoginFlowImpl{
		userRepo:          userRepo,
		tokenService:      tokenService,
		attempts:          attempts,
		passwordMinLength: passwordMinLength,
		bcryptCost:        bcryptCost,
	}
}

// Login authenticates a user with email and password
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	email := normalizeEmail(request.Email)

	if lf.attempts.Blocked(ctx, email) {
		return nil, NewBusinessError("LOGIN_RATE_LIMITED", "Too many failed login attempts, try again later", ErrTooManyLoginAttempts)
	}

	user, err := lf.userRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Storage is temporarily unavailable", err)
	}
	if user == nil {
		lf.attempts.RecordFailure(ctx, email)
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		lf.attempts.RecordFailure(ctx, email)
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", ErrIncorrectPassword)
	}

	lf.attempts.Reset(ctx, email)

	token, _, err := lf.tokenService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate access token", err)
	}

	log.Printf("user %d logged in%s", user.ID, requestSuffix(metadata))

	return &dto.LoginResponse{
		User:        ToUserDTO(user),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(lf.tokenService.AccessTokenTTL().Seconds()),
	}, nil
}

// ResetPassword replaces the password of the user with the given email.
// The user must exist before the new password is checked.
func (lf *LoginFlowImpl) ResetPassword(ctx context.Context, email string, request *dto.PasswordResetRequest, metadata *ClientMetadata) error {
	user, err := lf.userRepo.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return NewBusinessError("PASSWORD_RESET_FAILED", "Storage is temporarily unavailable", err)
	}
	if user == nil {
		return NewBusinessError("USER_NOT_FOUND", "User with the given email not found", ErrUserNotFound)
	}

	if len(request.NewPassword) < lf.passwordMinLength {
		return NewBusinessErrorf("WEAK_PASSWORD", "Password must be at least %d characters long", ErrWeakPassword, lf.passwordMinLength)
	}

	hash, err := hashPassword(request.NewPassword, lf.bcryptCost)
	if err != nil {
		return NewBusinessError("PASSWORD_RESET_FAILED", "Failed to reset password", err)
	}

	if err := lf.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return NewBusinessError("PASSWORD_RESET_FAILED", "Failed to reset password", err)
	}

	log.Printf("password reset for user %d%s", user.ID, requestSuffix(metadata))
	return nil
}
