package repository

import (
	"context"

	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"gorm.io/gorm"
)

type ReactionRoleRepository interface {
	Create(context.Context, *entity.ReactionRoleGroup) error
	GetByID(context.Context, string) (*entity.ReactionRoleGroup, error)
	GetByBindingID(context.Context, string) (*entity.ReactionRoleGroup, error)
	GetByMessageID(ctx context.Context, guildID, messageID string) (*entity.ReactionRoleGroup, error)
	GetListByGuildID(context.Context, string) ([]entity.ReactionRoleGroup, error)
	UpdateByID(context.Context, string, *entity.ReactionRoleGroup) error
	UpdateStatusByID(ctx context.Context, id string, status bool) error
	ReplaceBindings(ctx context.Context, groupID string, bindings []entity.ReactionBinding) error
	DeleteByID(context.Context, string) error
}

type reactionRoleRepository struct{}

func NewReactionRoleRepository() ReactionRoleRepository {
	return &reactionRoleRepository{}
}

func preloadBindings(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Bindings", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *reactionRoleRepository) Create(ctx context.Context, e *entity.ReactionRoleGroup) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *reactionRoleRepository) GetByID(ctx context.Context, id string) (*entity.ReactionRoleGroup, error) {
	result := entity.ReactionRoleGroup{}
	if err := preloadBindings(xcontext.DB(ctx)).Take(&result, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *reactionRoleRepository) GetByBindingID(
	ctx context.Context, bindingID string,
) (*entity.ReactionRoleGroup, error) {
	binding := entity.ReactionBinding{}
	if err := xcontext.DB(ctx).Take(&binding, "id = ?", bindingID).Error; err != nil {
		return nil, err
	}

	return r.GetByID(ctx, binding.GroupID)
}

func (r *reactionRoleRepository) GetByMessageID(
	ctx context.Context, guildID, messageID string,
) (*entity.ReactionRoleGroup, error) {
	result := entity.ReactionRoleGroup{}
	err := preloadBindings(xcontext.DB(ctx)).
		Take(&result, "guild_id = ? AND message_id = ?", guildID, messageID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *reactionRoleRepository) GetListByGuildID(
	ctx context.Context, guildID string,
) ([]entity.ReactionRoleGroup, error) {
	result := []entity.ReactionRoleGroup{}
	err := preloadBindings(xcontext.DB(ctx)).
		Order("created_at ASC, id ASC").
		Find(&result, "guild_id = ?", guildID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateByID writes the editable fields of the group, including the empty
// ones. The message id is never changed.
func (r *reactionRoleRepository) UpdateByID(
	ctx context.Context, id string, e *entity.ReactionRoleGroup,
) error {
	return xcontext.DB(ctx).
		Model(&entity.ReactionRoleGroup{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"channel_id":     e.ChannelID,
			"title":          e.Title,
			"custom_message": e.CustomMessage,
			"status":         e.Status,
		}).Error
}

func (r *reactionRoleRepository) UpdateStatusByID(ctx context.Context, id string, status bool) error {
	return xcontext.DB(ctx).
		Model(&entity.ReactionRoleGroup{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *reactionRoleRepository) ReplaceBindings(
	ctx context.Context, groupID string, bindings []entity.ReactionBinding,
) error {
	err := xcontext.DB(ctx).Unscoped().
		Where("group_id = ?", groupID).
		Delete(&entity.ReactionBinding{}).Error
	if err != nil {
		return err
	}

	if len(bindings) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(&bindings).Error
}

// DeleteByID removes the group and its bindings permanently, so the message can
// be configured again later.
func (r *reactionRoleRepository) DeleteByID(ctx context.Context, id string) error {
	err := xcontext.DB(ctx).Unscoped().
		Where("group_id = ?", id).
		Delete(&entity.ReactionBinding{}).Error
	if err != nil {
		return err
	}

	return xcontext.DB(ctx).Unscoped().
		Where("id = ?", id).
		Delete(&entity.ReactionRoleGroup{}).Error
}
