package testing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/amirphl/panel-registry/models"
	"github.com/amirphl/panel-registry/repository"
)

// keyed is satisfied by pointers to the persisted resource models
type keyed[T any] interface {
	*T
	RecordID() int64
	RecordEmail() string
}

// MemoryRepository is an in-memory repository.Repository with a unique email index.
// Setting Err makes every call fail with a store error.
type MemoryRepository[T any, P keyed[T]] struct {
	mu      sync.Mutex
	records map[int64]*T
	Err     error
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository[T any, P keyed[T]]() *MemoryRepository[T, P] {
	return &MemoryRepository[T, P]{records: make(map[int64]*T)}
}

func (m *MemoryRepository[T, P]) fail(action string) error {
	if m.Err == nil {
		return nil
	}
	return fmt.Errorf("%w: failed to %s: %v", repository.ErrStoreUnavailable, action, m.Err)
}

func clone[T any](entity *T) *T {
	copied := *entity
	return &copied
}

func (m *MemoryRepository[T, P]) ByID(_ context.Context, id int64) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("find entity by ID"); err != nil {
		return nil, err
	}

	entity, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return clone(entity), nil
}

func (m *MemoryRepository[T, P]) ByEmail(_ context.Context, email string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("find entity by email"); err != nil {
		return nil, err
	}

	for _, entity := range m.records {
		if P(entity).RecordEmail() == email {
			return clone(entity), nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository[T, P]) List(_ context.Context) ([]*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("list entities"); err != nil {
		return nil, err
	}

	entities := make([]*T, 0, len(m.records))
	for _, entity := range m.records {
		entities = append(entities, clone(entity))
	}
	sort.Slice(entities, func(i, j int) bool {
		return P(entities[i]).RecordID() < P(entities[j]).RecordID()
	})
	return entities, nil
}

func (m *MemoryRepository[T, P]) Save(_ context.Context, entity *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("save entity"); err != nil {
		return err
	}

	rec := P(entity)
	for id, existing := range m.records {
		if id == rec.RecordID() || P(existing).RecordEmail() == rec.RecordEmail() {
			return fmt.Errorf("failed to save entity: %w", repository.ErrDuplicateKey)
		}
	}

	m.records[rec.RecordID()] = clone(entity)
	return nil
}

// UpdateFields matches columns to the models' json names, which equal their column names
func (m *MemoryRepository[T, P]) UpdateFields(_ context.Context, id int64, fields map[string]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("update entity"); err != nil {
		return 0, err
	}

	entity, ok := m.records[id]
	if !ok || len(fields) == 0 {
		return 0, nil
	}

	stored, err := columnsOf(entity)
	if err != nil {
		return 0, err
	}

	patch := make(map[string]json.RawMessage, len(fields)+1)
	changed := false
	for column, value := range fields {
		encoded, err := json.Marshal(value)
		if err != nil {
			return 0, fmt.Errorf("failed to encode column %s: %w", column, err)
		}
		current, ok := stored[column]
		if !ok {
			current = json.RawMessage("null")
		}
		if !bytes.Equal(current, encoded) {
			changed = true
		}
		patch[column] = encoded
	}
	if !changed {
		return 0, nil
	}

	now, _ := json.Marshal(time.Now().UTC())
	patch["updated_at"] = now

	encoded, err := json.Marshal(patch)
	if err != nil {
		return 0, err
	}
	updated := clone(entity)
	if err := json.Unmarshal(encoded, updated); err != nil {
		return 0, fmt.Errorf("failed to apply update: %w", err)
	}
	m.records[id] = updated
	return 1, nil
}

func columnsOf(entity any) (map[string]json.RawMessage, error) {
	encoded, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	var columns map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

func (m *MemoryRepository[T, P]) DeleteByID(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("delete entity"); err != nil {
		return 0, err
	}

	if _, ok := m.records[id]; !ok {
		return 0, nil
	}
	delete(m.records, id)
	return 1, nil
}

// Len returns the number of stored records
func (m *MemoryRepository[T, P]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// MemoryUserRepository adds password updates to the in-memory user store
type MemoryUserRepository struct {
	*MemoryRepository[models.User, *models.User]
}

// NewMemoryUserRepository creates an empty in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{MemoryRepository: NewMemoryRepository[models.User]()}
}

func (m *MemoryUserRepository) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("update password"); err != nil {
		return err
	}

	user, ok := m.records[userID]
	if !ok {
		return fmt.Errorf("user %d not found", userID)
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()
	return nil
}

// NewMemoryAdminRepository creates an empty in-memory admin repository
func NewMemoryAdminRepository() *MemoryRepository[models.Admin, *models.Admin] {
	return NewMemoryRepository[models.Admin]()
}

// NewMemoryMemberRepository creates an empty in-memory member repository
func NewMemoryMemberRepository() *MemoryRepository[models.Member, *models.Member] {
	return NewMemoryRepository[models.Member]()
}

// MemorySequence is an in-memory repository.SequenceRepository
type MemorySequence struct {
	mu     sync.Mutex
	values map[string]int64
	Err    error
}

// NewMemorySequence creates a sequence whose counters all start at zero
func NewMemorySequence() *MemorySequence {
	return &MemorySequence{values: make(map[string]int64)}
}

func (s *MemorySequence) Next(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, fmt.Errorf("%w: failed to draw next value of %s: %v", repository.ErrStoreUnavailable, name, s.Err)
	}
	s.values[name]++
	return s.values[name], nil
}

func (s *MemorySequence) Current(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, fmt.Errorf("%w: failed to read %s: %v", repository.ErrStoreUnavailable, name, s.Err)
	}
	return s.values[name], nil
}

// Set overrides the last value handed out for name
func (s *MemorySequence) Set(name string, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}
