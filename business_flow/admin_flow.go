package businessflow

import (
	"time"

	"github.com/amirphl/panel-registry/app/dto"
	"github.com/amirphl/panel-registry/models"
	"github.com/amirphl/panel-registry/repository"
)

// AdminFlow handles administrator records
type AdminFlow = ResourceFlow[dto.CreateAdminRequest, dto.UpdateAdminRequest, dto.AdminDTO]

var profileExportHeader = []string{"id", "uuid", "name", "email", "mobile_number", "location", "created_at", "updated_at"}

// NewAdminFlow creates a new admin flow instance
func NewAdminFlow(adminRepo repository.AdminRepository, seqRepo repository.SequenceRepository, bcryptCost int) AdminFlow {
	return newResourceFlow[models.Admin, *models.Admin](AdminKind, adminRepo, seqRepo, resourceMapping[models.Admin, dto.CreateAdminRequest, dto.UpdateAdminRequest, dto.AdminDTO]{
		newRecord: func(request *dto.CreateAdminRequest) (*models.Admin, error) {
			var password string
			if request.Password != nil {
				password = *request.Password
			} else {
				generated, err := generateRandomPassword()
				if err != nil {
					return nil, err
				}
				password = generated
			}

			hash, err := hashPassword(password, bcryptCost)
			if err != nil {
				return nil, err
			}

			return &models.Admin{
				Name:         request.Name,
				Email:        normalizeEmail(request.Email),
				MobileNumber: request.MobileNumber,
				Location:     request.Location,
				PasswordHash: hash,
			}, nil
		},
		merged: func(existing *models.Admin, request *dto.UpdateAdminRequest) any {
			view := dto.CreateAdminRequest{
				Name:         existing.Name,
				Email:        existing.Email,
				MobileNumber: existing.MobileNumber,
				Location:     existing.Location,
			}
			mergeProfile(&view.Name, &view.MobileNumber, &view.Location, request.Name, request.MobileNumber, request.Location)
			return &view
		},
		changes: func(request *dto.UpdateAdminRequest) map[string]any {
			return profileChanges(request.Name, request.MobileNumber, request.Location)
		},
		toDTO:        ToAdminDTO,
		exportHeader: profileExportHeader,
		exportRow: func(item dto.AdminDTO) []any {
			return []any{item.ID, item.UUID, item.Name, item.Email, item.MobileNumber, item.Location, item.CreatedAt, item.UpdatedAt}
		},
	})
}

// ToAdminDTO converts an admin model to its public representation
func ToAdminDTO(admin *models.Admin) dto.AdminDTO {
	return dto.AdminDTO{
		ID:           admin.ID,
		UUID:         admin.UUID.String(),
		Name:         admin.Name,
		Email:        admin.Email,
		MobileNumber: admin.MobileNumber,
		Location:     admin.Location,
		CreatedAt:    admin.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    admin.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// mergeProfile overwrites the descriptive fields that were submitted
func mergeProfile(name *string, mobile *int64, location *string, newName *string, newMobile *int64, newLocation *string) {
	if newName != nil {
		*name = *newName
	}
	if newMobile != nil {
		*mobile = *newMobile
	}
	if newLocation != nil {
		*location = *newLocation
	}
}

func profileChanges(name *string, mobile *int64, location *string) map[string]any {
	fields := make(map[string]any)
	if name != nil {
		fields["name"] = *name
	}
	if mobile != nil {
		fields["mobile_number"] = *mobile
	}
	if location != nil {
		fields["location"] = *location
	}
	return fields
}
