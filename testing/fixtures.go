package testing

import (
	"fmt"
	"sync/atomic"

	"github.com/amirphl/panel-registry/app/dto"
	"github.com/amirphl/panel-registry/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain-text password of every fixture that carries a credential
const TestPassword = "TestPass123!"

var fixtureSeq atomic.Int64

// UniqueEmail returns an email address not handed out before in this process
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s.%d@example.com", prefix, fixtureSeq.Add(1))
}

// HashTestPassword hashes password with the cheapest bcrypt cost
func HashTestPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("failed to hash test password: %v", err))
	}
	return string(hash)
}

// NewAdminRequest returns a valid admin create payload
func NewAdminRequest() *dto.CreateAdminRequest {
	return &dto.CreateAdminRequest{
		Name:         "Alice Admin",
		Email:        UniqueEmail("admin"),
		MobileNumber: 9121234567,
		Location:     "Tehran",
	}
}

// NewMemberRequest returns a valid panel member create payload
func NewMemberRequest() *dto.CreateMemberRequest {
	return &dto.CreateMemberRequest{
		Name:         "Mona Member",
		Email:        UniqueEmail("member"),
		MobileNumber: 9127654321,
		Location:     "Shiraz",
	}
}

// NewUserRequest returns a valid user create payload using TestPassword
func NewUserRequest() *dto.CreateUserRequest {
	return &dto.CreateUserRequest{
		Name:         "Uma User",
		Email:        UniqueEmail("user"),
		MobileNumber: 9351112233,
		Location:     "Isfahan",
		Password:     TestPassword,
	}
}

// NewUser returns an unsaved user with the given id whose password is TestPassword
func NewUser(id int64, email string) *models.User {
	return &models.User{
		ID:           id,
		UUID:         uuid.New(),
		Name:         "Uma User",
		Email:        email,
		MobileNumber: 9351112233,
		Location:     "Isfahan",
		PasswordHash: HashTestPassword(TestPassword),
		Role:         models.UserRoleUser,
	}
}

// NewAdmin returns an unsaved admin with the given id
func NewAdmin(id int64, email string) *models.Admin {
	return &models.Admin{
		ID:           id,
		UUID:         uuid.New(),
		Name:         "Alice Admin",
		Email:        email,
		MobileNumber: 9121234567,
		Location:     "Tehran",
		PasswordHash: HashTestPassword(TestPassword),
	}
}

// NewMember returns an unsaved panel member with the given id
func NewMember(id int64, email string) *models.Member {
	return &models.Member{
		ID:           id,
		UUID:         uuid.New(),
		Name:         "Mona Member",
		Email:        email,
		MobileNumber: 9127654321,
		Location:     "Shiraz",
	}
}
