package businessflow_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/amirphl/panel-registry/app/dto"
	businessflow "github.com/amirphl/panel-registry/business_flow"
	"github.com/amirphl/panel-registry/models"
	testingutil "github.com/amirphl/panel-registry/testing"
	"github.com/amirphl/panel-registry/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAdminFlow() (businessflow.AdminFlow, *testingutil.MemoryRepository[models.Admin, *models.Admin], *testingutil.MemorySequence) {
	repo := testingutil.NewMemoryAdminRepository()
	seq := testingutil.NewMemorySequence()
	return businessflow.NewAdminFlow(repo, seq, bcrypt.MinCost), repo, seq
}

func newMemberFlow() (businessflow.MemberFlow, *testingutil.MemoryRepository[models.Member, *models.Member], *testingutil.MemorySequence) {
	repo := testingutil.NewMemoryMemberRepository()
	seq := testingutil.NewMemorySequence()
	return businessflow.NewMemberFlow(repo, seq), repo, seq
}

func newUserFlow() (businessflow.UserFlow, *testingutil.MemoryUserRepository, *testingutil.MemorySequence) {
	repo := testingutil.NewMemoryUserRepository()
	seq := testingutil.NewMemorySequence()
	return businessflow.NewUserFlow(repo, seq, bcrypt.MinCost), repo, seq
}

func TestResourceFlowCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("IDsStartAtOneAndIncrease", func(t *testing.T) {
		flow, _, _ := newMemberFlow()

		first, err := flow.Create(ctx, testingutil.NewMemberRequest(), nil)
		require.NoError(t, err)
		second, err := flow.Create(ctx, testingutil.NewMemberRequest(), nil)
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
		assert.NotEqual(t, first.UUID, second.UUID)
	})

	t.Run("ContinuesFromCounter", func(t *testing.T) {
		flow, _, seq := newAdminFlow()
		seq.Set(models.AdminSequence, 41)

		created, err := flow.Create(ctx, testingutil.NewAdminRequest(), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(42), created.ID)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		flow, repo, seq := newAdminFlow()
		req := testingutil.NewAdminRequest()

		_, err := flow.Create(ctx, req, nil)
		require.NoError(t, err)

		dup := testingutil.NewAdminRequest()
		dup.Email = strings.ToUpper(req.Email)
		_, err = flow.Create(ctx, dup, nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsDuplicateEmail(err))
		assert.Equal(t, "Admin with this email already exists", businessflow.MessageOf(err, ""))

		// the rejected create must not consume an id
		current, err := seq.Current(ctx, models.AdminSequence)
		require.NoError(t, err)
		assert.Equal(t, int64(1), current)
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("SameEmailAcrossResourceTypes", func(t *testing.T) {
		adminFlow, _, _ := newAdminFlow()
		memberFlow, _, _ := newMemberFlow()

		adminReq := testingutil.NewAdminRequest()
		memberReq := testingutil.NewMemberRequest()
		memberReq.Email = adminReq.Email

		admin, err := adminFlow.Create(ctx, adminReq, nil)
		require.NoError(t, err)
		member, err := memberFlow.Create(ctx, memberReq, nil)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, member.ID)
	})

	t.Run("AdminWithoutPasswordGetsOne", func(t *testing.T) {
		flow, repo, _ := newAdminFlow()

		created, err := flow.Create(ctx, testingutil.NewAdminRequest(), nil)
		require.NoError(t, err)

		stored, err := repo.ByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.NotEmpty(t, stored.PasswordHash)
	})

	t.Run("UserPasswordIsHashed", func(t *testing.T) {
		flow, repo, _ := newUserFlow()
		req := testingutil.NewUserRequest()

		created, err := flow.Create(ctx, req, nil)
		require.NoError(t, err)
		assert.Equal(t, models.UserRoleUser, created.Role)

		stored, err := repo.ByID(ctx, created.ID)
		require.NoError(t, err)
		assert.NotEqual(t, req.Password, stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(req.Password)))
	})

	t.Run("StoreUnavailable", func(t *testing.T) {
		flow, repo, _ := newMemberFlow()
		repo.Err = errors.New("connection refused")

		_, err := flow.Create(ctx, testingutil.NewMemberRequest(), nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsStoreUnavailable(err))
	})

	t.Run("SequenceUnavailableAssignsNothing", func(t *testing.T) {
		flow, repo, seq := newMemberFlow()
		seq.Err = errors.New("timeout")

		_, err := flow.Create(ctx, testingutil.NewMemberRequest(), nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsStoreUnavailable(err))
		assert.Equal(t, 0, repo.Len())
	})
}

func TestResourceFlowConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	flow, _, _ := newUserFlow()

	const n = 50
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := flow.Create(ctx, testingutil.NewUserRequest(), nil)
			if assert.NoError(t, err) {
				ids[i] = created.ID
			}
		}(i)
	}
	wg.Wait()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		assert.Equal(t, int64(i+1), id)
	}
}

func TestResourceFlowConcurrentDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	flow, repo, _ := newMemberFlow()
	email := testingutil.UniqueEmail("race")

	const n = 20
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := testingutil.NewMemberRequest()
			req.Email = email
			_, err := flow.Create(ctx, req, nil)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case businessflow.IsDuplicateEmail(err):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, duplicates)
	assert.Equal(t, 1, repo.Len())
}

func TestResourceFlowGet(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		lookup  func(id int64) error
		message string
	}{
		{
			name: "Admin",
			lookup: func(id int64) error {
				flow, _, _ := newAdminFlow()
				_, err := flow.Get(ctx, id)
				return err
			},
			message: "Admin with id 9999 not found",
		},
		{
			name: "Member",
			lookup: func(id int64) error {
				flow, _, _ := newMemberFlow()
				_, err := flow.Get(ctx, id)
				return err
			},
			message: "Panel Member with id 9999 not found",
		},
		{
			name: "User",
			lookup: func(id int64) error {
				flow, _, _ := newUserFlow()
				_, err := flow.Get(ctx, id)
				return err
			},
			message: "User with id 9999 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"NotFound", func(t *testing.T) {
			err := tt.lookup(9999)
			require.Error(t, err)
			assert.True(t, businessflow.IsRecordNotFound(err))
			assert.Equal(t, tt.message, businessflow.MessageOf(err, ""))
		})
	}

	t.Run("Found", func(t *testing.T) {
		flow, _, _ := newMemberFlow()
		req := testingutil.NewMemberRequest()
		created, err := flow.Create(ctx, req, nil)
		require.NoError(t, err)

		got, err := flow.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
		assert.Equal(t, req.Email, got.Email)
	})
}

func TestResourceFlowList(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyIsNotFoundAll", func(t *testing.T) {
		flow, _, _ := newUserFlow()
		_, err := flow.List(ctx)
		require.Error(t, err)
		assert.True(t, businessflow.IsNoRecords(err))
		assert.Equal(t, "No users found", businessflow.MessageOf(err, ""))
	})

	t.Run("OrderedByID", func(t *testing.T) {
		flow, _, _ := newAdminFlow()
		for i := 0; i < 3; i++ {
			_, err := flow.Create(ctx, testingutil.NewAdminRequest(), nil)
			require.NoError(t, err)
		}

		items, err := flow.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		for i, item := range items {
			assert.Equal(t, int64(i+1), item.ID)
		}
	})
}

func TestResourceFlowUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("ChangesSubmittedFieldsOnly", func(t *testing.T) {
		flow, _, _ := newMemberFlow()
		created, err := flow.Create(ctx, testingutil.NewMemberRequest(), nil)
		require.NoError(t, err)

		updated, err := flow.Update(ctx, created.ID, &dto.UpdateMemberRequest{Location: utils.ToPtr("Tabriz")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Tabriz", updated.Location)
		assert.Equal(t, created.Name, updated.Name)
		assert.Equal(t, created.Email, updated.Email)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.UUID, updated.UUID)

		fetched, err := flow.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tabriz", fetched.Location)
		assert.Equal(t, created.Name, fetched.Name)
	})

	t.Run("SameValuesFail", func(t *testing.T) {
		flow, _, _ := newAdminFlow()
		created, err := flow.Create(ctx, testingutil.NewAdminRequest(), nil)
		require.NoError(t, err)

		_, err = flow.Update(ctx, created.ID, &dto.UpdateAdminRequest{
			Name:         utils.ToPtr(created.Name),
			MobileNumber: utils.ToPtr(int64(created.MobileNumber)),
		}, nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsUpdateFailed(err))
		assert.Equal(t, "Failed to update admin", businessflow.MessageOf(err, ""))
	})

	t.Run("EmptyUpdateFails", func(t *testing.T) {
		flow, _, _ := newUserFlow()
		created, err := flow.Create(ctx, testingutil.NewUserRequest(), nil)
		require.NoError(t, err)

		_, err = flow.Update(ctx, created.ID, &dto.UpdateUserRequest{}, nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsUpdateFailed(err))
	})

	t.Run("UserRole", func(t *testing.T) {
		flow, _, _ := newUserFlow()
		created, err := flow.Create(ctx, testingutil.NewUserRequest(), nil)
		require.NoError(t, err)

		updated, err := flow.Update(ctx, created.ID, &dto.UpdateUserRequest{
			Role:                  utils.ToPtr(models.UserRoleAdmin),
			WhatsappCloudNumberID: utils.ToPtr("106540352242922"),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, models.UserRoleAdmin, updated.Role)
		require.NotNil(t, updated.WhatsappCloudNumberID)
		assert.Equal(t, "106540352242922", *updated.WhatsappCloudNumberID)
	})

	t.Run("NotFound", func(t *testing.T) {
		flow, _, _ := newMemberFlow()
		_, err := flow.Update(ctx, 9999, &dto.UpdateMemberRequest{Name: utils.ToPtr("x")}, nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsRecordNotFound(err))
		assert.Equal(t, "Panel Member with id 9999 not found", businessflow.MessageOf(err, ""))
	})

	t.Run("InvalidMergedRecord", func(t *testing.T) {
		flow, _, _ := newMemberFlow()
		created, err := flow.Create(ctx, testingutil.NewMemberRequest(), nil)
		require.NoError(t, err)

		_, err = flow.Update(ctx, created.ID, &dto.UpdateMemberRequest{MobileNumber: utils.ToPtr(int64(-5))}, nil)
		require.Error(t, err)
		assert.True(t, businessflow.IsInvalidRecord(err))
	})
}

func TestResourceFlowDelete(t *testing.T) {
	ctx := context.Background()
	flow, repo, seq := newUserFlow()

	created, err := flow.Create(ctx, testingutil.NewUserRequest(), nil)
	require.NoError(t, err)

	require.NoError(t, flow.Delete(ctx, created.ID, nil))
	assert.Equal(t, 0, repo.Len())

	_, err = flow.Get(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, businessflow.IsRecordNotFound(err))
	assert.Equal(t, fmt.Sprintf("User with id %d not found", created.ID), businessflow.MessageOf(err, ""))

	err = flow.Delete(ctx, created.ID, nil)
	require.Error(t, err)
	assert.True(t, businessflow.IsRecordNotFound(err))
	assert.Equal(t, fmt.Sprintf("User with id %d not found", created.ID), businessflow.MessageOf(err, ""))

	// ids are never reused
	next, err := flow.Create(ctx, testingutil.NewUserRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID+1, next.ID)
	current, err := seq.Current(ctx, models.UserSequence)
	require.NoError(t, err)
	assert.Equal(t, next.ID, current)
}
