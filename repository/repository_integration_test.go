package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/amirphl/panel-registry/models"
	"github.com/amirphl/panel-registry/repository"
	testingutil "github.com/amirphl/panel-registry/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withDB runs fn against a fresh migrated database, skipping when PostgreSQL is not reachable
func withDB(t *testing.T, fn func(*testingutil.TestDB) error) {
	t.Helper()

	err := testingutil.TestWithDB(fn)
	if errors.Is(err, testingutil.ErrDatabaseUnavailable) {
		t.Skipf("skipping database test: %v", err)
	}
	require.NoError(t, err)
}

func TestSequenceAgainstPostgres(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		ctx := context.Background()
		seq := repository.NewSequenceRepository(testDB.DB)

		current, err := seq.Current(ctx, models.AdminSequence)
		require.NoError(t, err)
		assert.Zero(t, current)

		const n = 40
		values := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := seq.Next(ctx, models.AdminSequence)
				if assert.NoError(t, err) {
					values <- v
				}
			}()
		}
		wg.Wait()
		close(values)

		seen := make(map[int64]bool, n)
		for v := range values {
			assert.False(t, seen[v], "value %d handed out twice", v)
			seen[v] = true
		}
		for i := int64(1); i <= n; i++ {
			assert.True(t, seen[i], "value %d missing", i)
		}

		// counters are independent per key
		other, err := seq.Next(ctx, models.MemberSequence)
		require.NoError(t, err)
		assert.Equal(t, int64(1), other)

		current, err = seq.Current(ctx, models.AdminSequence)
		require.NoError(t, err)
		assert.Equal(t, int64(n), current)

		// a wiped database starts counting from 1 again
		require.NoError(t, testDB.ClearAllTables())
		current, err = seq.Current(ctx, models.AdminSequence)
		require.NoError(t, err)
		assert.Zero(t, current)
		first, err := seq.Next(ctx, models.AdminSequence)
		require.NoError(t, err)
		assert.Equal(t, int64(1), first)
		return nil
	})
}

func TestMemberRepositoryAgainstPostgres(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		ctx := context.Background()
		repo := repository.NewMemberRepository(testDB.DB)

		member := testingutil.NewMember(1, testingutil.UniqueEmail("pg"))
		require.NoError(t, repo.Save(ctx, member))

		dup := testingutil.NewMember(2, member.Email)
		err := repo.Save(ctx, dup)
		assert.ErrorIs(t, err, repository.ErrDuplicateKey)

		found, err := repo.ByEmail(ctx, member.Email)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, member.ID, found.ID)

		missing, err := repo.ByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, missing)

		affected, err := repo.UpdateFields(ctx, member.ID, map[string]any{"location": member.Location})
		require.NoError(t, err)
		assert.Zero(t, affected)

		affected, err = repo.UpdateFields(ctx, member.ID, map[string]any{"location": "Tabriz"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		updated, err := repo.ByID(ctx, member.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tabriz", updated.Location)
		assert.Equal(t, member.Email, updated.Email)

		require.NoError(t, repo.Save(ctx, testingutil.NewMember(2, testingutil.UniqueEmail("pg"))))
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, int64(1), list[0].ID)
		assert.Equal(t, int64(2), list[1].ID)

		affected, err = repo.DeleteByID(ctx, member.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
		affected, err = repo.DeleteByID(ctx, member.ID)
		require.NoError(t, err)
		assert.Zero(t, affected)
		return nil
	})
}

func TestUserRepositoryUpdatePasswordAgainstPostgres(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		ctx := context.Background()
		repo := repository.NewUserRepository(testDB.DB)

		user := testingutil.NewUser(1, testingutil.UniqueEmail("pw"))
		require.NoError(t, repo.Save(ctx, user))

		require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))
		stored, err := repo.ByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", stored.PasswordHash)
		assert.Equal(t, user.Email, stored.Email)

		assert.Error(t, repo.UpdatePassword(ctx, 9999, "new-hash"))
		return nil
	})
}
