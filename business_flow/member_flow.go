package businessflow

import (
	"time"

	"github.com/amirphl/panel-registry/app/dto"
	"github.com/amirphl/panel-registry/models"
	"github.com/amirphl/panel-registry/repository"
)

// MemberFlow handles panel member records
type MemberFlow = ResourceFlow[dto.CreateMemberRequest, dto.UpdateMemberRequest, dto.MemberDTO]

// NewMemberFlow creates a new panel member flow instance
func NewMemberFlow(memberRepo repository.MemberRepository, seqRepo repository.SequenceRepository) MemberFlow {
	return newResourceFlow[models.Member, *models.Member](MemberKind, memberRepo, seqRepo, resourceMapping[models.Member, dto.CreateMemberRequest, dto.UpdateMemberRequest, dto.MemberDTO]{
		newRecord: func(request *dto.CreateMemberRequest) (*models.Member, error) {
			return &models.Member{
				Name:         request.Name,
				Email:        normalizeEmail(request.Email),
				MobileNumber: request.MobileNumber,
				Location:     request.Location,
			}, nil
		},
		merged: func(existing *models.Member, request *dto.UpdateMemberRequest) any {
			view := dto.CreateMemberRequest{
				Name:         existing.Name,
				Email:        existing.Email,
				MobileNumber: existing.MobileNumber,
				Location:     existing.Location,
			}
			mergeProfile(&view.Name, &view.MobileNumber, &view.Location, request.Name, request.MobileNumber, request.Location)
			return &view
		},
		changes: func(request *dto.UpdateMemberRequest) map[string]any {
			return profileChanges(request.Name, request.MobileNumber, request.Location)
		},
		toDTO:        ToMemberDTO,
		exportHeader: profileExportHeader,
		exportRow: func(item dto.MemberDTO) []any {
			return []any{item.ID, item.UUID, item.Name, item.Email, item.MobileNumber, item.Location, item.CreatedAt, item.UpdatedAt}
		},
	})
}

// ToMemberDTO converts a panel member model to its public representation
func ToMemberDTO(member *models.Member) dto.MemberDTO {
	return dto.MemberDTO{
		ID:           member.ID,
		UUID:         member.UUID.String(),
		Name:         member.Name,
		Email:        member.Email,
		MobileNumber: member.MobileNumber,
		Location:     member.Location,
		CreatedAt:    member.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    member.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
