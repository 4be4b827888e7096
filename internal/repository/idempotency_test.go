package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/internal/repository"
	"github.com/questx-lab/reactrole/pkg/testutil"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_idempotencyRepository(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewIdempotencyRepository()

	require.NoError(t, repo.Create(ctx, &entity.Idempotency{
		ID:        "i1",
		UserID:    "user1",
		GuildID:   "guild1",
		Key:       "key1",
		GroupID:   "group1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &entity.Idempotency{
		ID:        "i2",
		UserID:    "user1",
		GuildID:   "guild1",
		Key:       "key2",
		GroupID:   "group2",
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	record, err := repo.Get(ctx, "user1", "guild1", "key1")
	require.NoError(t, err)
	require.Equal(t, "group1", record.GroupID)

	// Expired.
	_, err = repo.Get(ctx, "user1", "guild1", "key2")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// Keys are scoped by user.
	_, err = repo.Get(ctx, "user2", "guild1", "key1")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// Duplicated key.
	err = repo.Create(ctx, &entity.Idempotency{
		ID:        "i3",
		UserID:    "user1",
		GuildID:   "guild1",
		Key:       "key1",
		GroupID:   "group3",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	require.True(t, repository.IsUniqueViolation(err))
	require.False(t, repository.IsUniqueViolation(gorm.ErrRecordNotFound))

	require.False(t, record.Completed)
	expiresAt := time.Now().Add(2 * time.Hour)
	require.NoError(t, repo.Complete(ctx, "i1", expiresAt))
	record, err = repo.Get(ctx, "user1", "guild1", "key1")
	require.NoError(t, err)
	require.True(t, record.Completed)
	require.WithinDuration(t, expiresAt, record.ExpiresAt, time.Second)

	require.NoError(t, repo.DeleteExpired(ctx, time.Now()))
	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Idempotency{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func Test_idempotencyRepository_DeleteByID(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewIdempotencyRepository()

	require.NoError(t, repo.Create(ctx, &entity.Idempotency{
		ID:        "i1",
		UserID:    "user1",
		GuildID:   "guild1",
		Key:       "key1",
		GroupID:   "group1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, repo.DeleteByID(ctx, "i1"))

	_, err := repo.Get(ctx, "user1", "guild1", "key1")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
