package businessflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/amirphl/panel-registry/models"
	"github.com/amirphl/panel-registry/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ResourceKind names one resource type, the counter its ids are drawn from
// and the labels used in caller-facing messages.
type ResourceKind struct {
	Name     string
	Label    string
	Plural   string
	Sequence string
}

var (
	AdminKind  = ResourceKind{Name: "admin", Label: "Admin", Plural: "admins", Sequence: models.AdminSequence}
	MemberKind = ResourceKind{Name: "member", Label: "Panel Member", Plural: "panel members", Sequence: models.MemberSequence}
	UserKind   = ResourceKind{Name: "user", Label: "User", Plural: "users", Sequence: models.UserSequence}
)

func (k ResourceKind) code(suffix string) string {
	return strings.ToUpper(k.Name) + "_" + suffix
}

// NotFoundMessage is the message reported for a missing id
func (k ResourceKind) NotFoundMessage(id int64) string {
	return fmt.Sprintf("%s with id %d not found", k.Label, id)
}

// DeletedMessage is the message reported after a successful delete
func (k ResourceKind) DeletedMessage(id int64) string {
	return fmt.Sprintf("%s with id %d deleted successfully", k.Label, id)
}

// ResourceFlow is the CRUD contract shared by admins, panel members and users.
// C is the create payload, U the partial update payload and R the public representation.
type ResourceFlow[C, U, R any] interface {
	Create(ctx context.Context, request *C, metadata *ClientMetadata) (*R, error)
	Get(ctx context.Context, id int64) (*R, error)
	List(ctx context.Context) ([]R, error)
	Update(ctx context.Context, id int64, request *U, metadata *ClientMetadata) (*R, error)
	Delete(ctx context.Context, id int64, metadata *ClientMetadata) error
	Export(ctx context.Context) ([]byte, error)
	Kind() ResourceKind
}

// record is satisfied by pointers to the persisted resource models
type record[T any] interface {
	*T
	RecordID() int64
	RecordEmail() string
	AssignID(id int64)
	AssignUUID(id uuid.UUID)
}

// resourceMapping adapts one resource type to the shared flow
type resourceMapping[T, C, U, R any] struct {
	// newRecord builds an unsaved record from a create payload
	newRecord func(request *C) (*T, error)
	// merged returns the create-shaped view of existing with request applied, used only for validation
	merged func(existing *T, request *U) any
	// changes lists the submitted columns and their new values
	changes func(request *U) map[string]any
	toDTO   func(entity *T) R

	exportHeader []string
	exportRow    func(item R) []any
}

// resourceFlowImpl implements ResourceFlow on top of a repository and the sequence generator
type resourceFlowImpl[T any, P record[T], C, U, R any] struct {
	kind     ResourceKind
	repo     repository.Repository[T]
	seqRepo  repository.SequenceRepository
	validate *validator.Validate
	mapping  resourceMapping[T, C, U, R]
}

func newResourceFlow[T any, P record[T], C, U, R any](
	kind ResourceKind,
	repo repository.Repository[T],
	seqRepo repository.SequenceRepository,
	mapping resourceMapping[T, C, U, R],
) *resourceFlowImpl[T, P, C, U, R] {
	return &resourceFlowImpl[T, P, C, U, R]{
		kind:     kind,
		repo:     repo,
		seqRepo:  seqRepo,
		validate: validator.New(),
		mapping:  mapping,
	}
}

func (f *resourceFlowImpl[T, P, C, U, R]) Kind() ResourceKind {
	return f.kind
}

// Create checks email uniqueness, draws the next id and inserts the record
func (f *resourceFlowImpl[T, P, C, U, R]) Create(ctx context.Context, request *C, metadata *ClientMetadata) (*R, error) {
	entity, err := f.mapping.newRecord(request)
	if err != nil {
		return nil, NewBusinessErrorf(f.kind.code("CREATE_FAILED"), "Failed to create %s", err, f.kind.Name)
	}
	rec := P(entity)

	existing, err := f.repo.ByEmail(ctx, rec.RecordEmail())
	if err != nil {
		return nil, f.storeFailure("CREATE_FAILED", err)
	}
	if existing != nil {
		return nil, f.duplicateEmail()
	}

	id, err := f.seqRepo.Next(ctx, f.kind.Sequence)
	if err != nil {
		return nil, f.storeFailure("CREATE_FAILED", err)
	}
	rec.AssignID(id)
	rec.AssignUUID(uuid.New())

	if err := f.repo.Save(ctx, entity); err != nil {
		// The unique index rejects the loser of a concurrent create with the same email.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, f.duplicateEmail()
		}
		return nil, f.storeFailure("CREATE_FAILED", err)
	}

	log.Printf("%s %d created%s", f.kind.Name, id, requestSuffix(metadata))

	result := f.mapping.toDTO(entity)
	return &result, nil
}

// Get returns the record with the given id
func (f *resourceFlowImpl[T, P, C, U, R]) Get(ctx context.Context, id int64) (*R, error) {
	entity, err := f.repo.ByID(ctx, id)
	if err != nil {
		return nil, f.storeFailure("GET_FAILED", err)
	}
	if entity == nil {
		return nil, f.notFound(id)
	}

	result := f.mapping.toDTO(entity)
	return &result, nil
}

// List returns every record ordered by id; an empty collection is reported as ErrNoRecords
func (f *resourceFlowImpl[T, P, C, U, R]) List(ctx context.Context) ([]R, error) {
	entities, err := f.repo.List(ctx)
	if err != nil {
		return nil, f.storeFailure("LIST_FAILED", err)
	}
	if len(entities) == 0 {
		return nil, NewBusinessErrorf(f.kind.code("NOT_FOUND_ALL"), "No %s found", ErrNoRecords, f.kind.Plural)
	}

	items := make([]R, 0, len(entities))
	for _, entity := range entities {
		items = append(items, f.mapping.toDTO(entity))
	}
	return items, nil
}

// Update applies the submitted fields to an existing record.
// An update that changes nothing is rejected with ErrUpdateFailed.
func (f *resourceFlowImpl[T, P, C, U, R]) Update(ctx context.Context, id int64, request *U, metadata *ClientMetadata) (*R, error) {
	existing, err := f.repo.ByID(ctx, id)
	if err != nil {
		return nil, f.storeFailure("UPDATE_FAILED", err)
	}
	if existing == nil {
		return nil, f.notFound(id)
	}

	if err := f.validate.Struct(f.mapping.merged(existing, request)); err != nil {
		return nil, NewBusinessErrorf(f.kind.code("VALIDATION_FAILED"), "Updated %s is invalid", fmt.Errorf("%w: %v", ErrInvalidRecord, err), f.kind.Name)
	}

	fields := f.mapping.changes(request)
	if len(fields) == 0 {
		return nil, f.updateFailed()
	}

	affected, err := f.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, f.storeFailure("UPDATE_FAILED", err)
	}
	if affected == 0 {
		return nil, f.updateFailed()
	}

	updated, err := f.repo.ByID(ctx, id)
	if err != nil {
		return nil, f.storeFailure("UPDATE_FAILED", err)
	}
	if updated == nil {
		return nil, f.notFound(id)
	}

	log.Printf("%s %d updated%s", f.kind.Name, id, requestSuffix(metadata))

	result := f.mapping.toDTO(updated)
	return &result, nil
}

// Delete removes the record with the given id
func (f *resourceFlowImpl[T, P, C, U, R]) Delete(ctx context.Context, id int64, metadata *ClientMetadata) error {
	affected, err := f.repo.DeleteByID(ctx, id)
	if err != nil {
		return f.storeFailure("DELETE_FAILED", err)
	}
	if affected == 0 {
		return f.notFound(id)
	}

	log.Printf("%s %d deleted%s", f.kind.Name, id, requestSuffix(metadata))
	return nil
}

// Export renders every record into a spreadsheet
func (f *resourceFlowImpl[T, P, C, U, R]) Export(ctx context.Context) ([]byte, error) {
	items, err := f.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, f.mapping.exportRow(item))
	}

	content, err := buildWorkbook(f.kind.Plural, f.mapping.exportHeader, rows)
	if err != nil {
		return nil, NewBusinessErrorf(f.kind.code("EXPORT_FAILED"), "Failed to export %s", fmt.Errorf("%w: %v", ErrExportFailed, err), f.kind.Plural)
	}
	return content, nil
}

func (f *resourceFlowImpl[T, P, C, U, R]) notFound(id int64) error {
	return NewBusinessError(f.kind.code("NOT_FOUND"), f.kind.NotFoundMessage(id), ErrRecordNotFound)
}

func (f *resourceFlowImpl[T, P, C, U, R]) duplicateEmail() error {
	return NewBusinessErrorf(f.kind.code("DUPLICATE_EMAIL"), "%s with this email already exists", ErrDuplicateEmail, f.kind.Label)
}

func (f *resourceFlowImpl[T, P, C, U, R]) updateFailed() error {
	return NewBusinessErrorf(f.kind.code("UPDATE_FAILED"), "Failed to update %s", ErrUpdateFailed, f.kind.Name)
}

func (f *resourceFlowImpl[T, P, C, U, R]) storeFailure(suffix string, err error) error {
	return NewBusinessError(f.kind.code(suffix), "Storage is temporarily unavailable", err)
}

func requestSuffix(metadata *ClientMetadata) string {
	if metadata == nil || metadata.RequestID == "" {
		return ""
	}
	return " (request " + metadata.RequestID + ")"
}
