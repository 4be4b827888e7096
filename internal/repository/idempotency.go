package repository

import (
	"context"
	"time"

	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/pkg/xcontext"
)

type IdempotencyRepository interface {
	Create(context.Context, *entity.Idempotency) error
	Get(ctx context.Context, userID, guildID, key string) (*entity.Idempotency, error)
	Complete(ctx context.Context, id string, expiresAt time.Time) error
	DeleteByID(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) error
}

type idempotencyRepository struct{}

func NewIdempotencyRepository() IdempotencyRepository {
	return &idempotencyRepository{}
}

func (r *idempotencyRepository) Create(ctx context.Context, e *entity.Idempotency) error {
	return xcontext.DB(ctx).Create(e).Error
}

// Get only returns a record which is not expired yet.
func (r *idempotencyRepository) Get(
	ctx context.Context, userID, guildID, key string,
) (*entity.Idempotency, error) {
	result := entity.Idempotency{}
	err := xcontext.DB(ctx).
		Where("user_id = ? AND guild_id = ? AND idempotency_key = ?", userID, guildID, key).
		Where("expires_at > ?", time.Now()).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *idempotencyRepository) Complete(ctx context.Context, id string, expiresAt time.Time) error {
	return xcontext.DB(ctx).
		Model(&entity.Idempotency{}).
		Where("id = ?", id).
		Updates(map[string]any{"completed": true, "expires_at": expiresAt}).Error
}

func (r *idempotencyRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Where("id = ?", id).Delete(&entity.Idempotency{}).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	return xcontext.DB(ctx).
		Where("expires_at <= ?", now).
		Delete(&entity.Idempotency{}).Error
}
