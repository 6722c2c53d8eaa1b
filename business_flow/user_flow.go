package businessflow

import (
	"time"

	"github.com/amirphl/panel-registry/app/dto"
	"github.com/amirphl/panel-registry/models"
	"github.com/amirphl/panel-registry/repository"
)

// UserFlow handles user records
type UserFlow = ResourceFlow[dto.CreateUserRequest, dto.UpdateUserRequest, dto.UserDTO]

// NewUserFlow creates a new user flow instance
func NewUserFlow(userRepo repository.UserRepository, seqRepo repository.SequenceRepository, bcryptCost int) UserFlow {
	return newResourceFlow[models.User, *models.User](UserKind, userRepo, seqRepo, resourceMapping[models.User, dto.CreateUserRequest, dto.UpdateUserRequest, dto.UserDTO]{
		newRecord: func(request *dto.CreateUserRequest) (*models.User, error) {
			hash, err := hashPassword(request.Password, bcryptCost)
			if err != nil {
				return nil, err
			}

			role := request.Role
			if role == "" {
				role = models.UserRoleUser
			}

			return &models.User{
				Name:                  request.Name,
				Email:                 normalizeEmail(request.Email),
				MobileNumber:          request.MobileNumber,
				Location:              request.Location,
				PasswordHash:          hash,
				Role:                  role,
				WhatsappAPIToken:      request.WhatsappAPIToken,
				WhatsappCloudNumberID: request.WhatsappCloudNumberID,
			}, nil
		},
		merged: func(existing *models.User, request *dto.UpdateUserRequest) any {
			view := userValidationView{
				Name:                  existing.Name,
				Email:                 existing.Email,
				MobileNumber:          existing.MobileNumber,
				Location:              existing.Location,
				Role:                  existing.Role,
				WhatsappAPIToken:      existing.WhatsappAPIToken,
				WhatsappCloudNumberID: existing.WhatsappCloudNumberID,
			}
			mergeProfile(&view.Name, &view.MobileNumber, &view.Location, request.Name, request.MobileNumber, request.Location)
			if request.Role != nil {
				view.Role = *request.Role
			}
			if request.WhatsappAPIToken != nil {
				view.WhatsappAPIToken = request.WhatsappAPIToken
			}
			if request.WhatsappCloudNumberID != nil {
				view.WhatsappCloudNumberID = request.WhatsappCloudNumberID
			}
			return &view
		},
		changes: func(request *dto.UpdateUserRequest) map[string]any {
			fields := profileChanges(request.Name, request.MobileNumber, request.Location)
			if request.Role != nil {
				fields["role"] = *request.Role
			}
			if request.WhatsappAPIToken != nil {
				fields["whatsapp_api_token"] = *request.WhatsappAPIToken
			}
			if request.WhatsappCloudNumberID != nil {
				fields["whatsapp_cloud_number_id"] = *request.WhatsappCloudNumberID
			}
			return fields
		},
		toDTO:        ToUserDTO,
		exportHeader: []string{"id", "uuid", "name", "email", "mobile_number", "location", "role", "whatsapp_cloud_number_id", "created_at", "updated_at"},
		exportRow: func(item dto.UserDTO) []any {
			cloudNumberID := ""
			if item.WhatsappCloudNumberID != nil {
				cloudNumberID = *item.WhatsappCloudNumberID
			}
			return []any{item.ID, item.UUID, item.Name, item.Email, item.MobileNumber, item.Location, item.Role, cloudNumberID, item.CreatedAt, item.UpdatedAt}
		},
	})
}

// userValidationView mirrors the create rules of a user minus the plaintext password,
// which is never stored and so cannot be re-validated on update.
type userValidationView struct {
	Name                  string  `validate:"required,min=1,max=255"`
	Email                 string  `validate:"required,email,max=255"`
	MobileNumber          int64   `validate:"required,gt=0"`
	Location              string  `validate:"required,min=1,max=255"`
	Role                  string  `validate:"required,oneof=user admin"`
	WhatsappAPIToken      *string `validate:"omitempty,max=512"`
	WhatsappCloudNumberID *string `validate:"omitempty,max=64"`
}

// ToUserDTO converts a user model to its public representation
func ToUserDTO(user *models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:                    user.ID,
		UUID:                  user.UUID.String(),
		Name:                  user.Name,
		Email:                 user.Email,
		MobileNumber:          user.MobileNumber,
		Location:              user.Location,
		Role:                  user.Role,
		WhatsappCloudNumberID: user.WhatsappCloudNumberID,
		CreatedAt:             user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             user.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
