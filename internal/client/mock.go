package client

import (
	"context"
	"errors"

	"github.com/questx-lab/reactrole/internal/model"
)

var errNotImplemented = errors.New("not implemented")

type MockReactionRoleCaller struct {
	ListFunc             func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error)
	CreateFunc           func(ctx context.Context, guildID string, draft model.ReactionRoleGroup, idempotencyKey string) (*model.ReactionRoleGroup, error)
	UpdateFunc           func(ctx context.Context, groupID, guildID string, draft model.ReactionRoleGroup) (*model.ReactionRoleGroup, error)
	DeleteByMessageFunc  func(ctx context.Context, messageID, guildID string) error
	SetBindingStatusFunc func(ctx context.Context, id, guildID string, status bool) error
	GuildEmojisFunc      func(ctx context.Context, guildID string) ([]model.Emoji, error)
	ChannelsFunc         func(ctx context.Context, guildID string) ([]model.Channel, error)
	RolesFunc            func(ctx context.Context, guildID string) ([]model.Role, error)
}

func (m *MockReactionRoleCaller) List(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, guildID)
	}

	return []model.ReactionRoleRow{}, nil
}

func (m *MockReactionRoleCaller) Create(
	ctx context.Context, guildID string, draft model.ReactionRoleGroup, idempotencyKey string,
) (*model.ReactionRoleGroup, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, guildID, draft, idempotencyKey)
	}

	return nil, errNotImplemented
}

func (m *MockReactionRoleCaller) Update(
	ctx context.Context, groupID, guildID string, draft model.ReactionRoleGroup,
) (*model.ReactionRoleGroup, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, groupID, guildID, draft)
	}

	return nil, errNotImplemented
}

func (m *MockReactionRoleCaller) DeleteByMessage(ctx context.Context, messageID, guildID string) error {
	if m.DeleteByMessageFunc != nil {
		return m.DeleteByMessageFunc(ctx, messageID, guildID)
	}

	return errNotImplemented
}

func (m *MockReactionRoleCaller) SetBindingStatus(ctx context.Context, id, guildID string, status bool) error {
	if m.SetBindingStatusFunc != nil {
		return m.SetBindingStatusFunc(ctx, id, guildID, status)
	}

	return errNotImplemented
}

func (m *MockReactionRoleCaller) GuildEmojis(ctx context.Context, guildID string) ([]model.Emoji, error) {
	if m.GuildEmojisFunc != nil {
		return m.GuildEmojisFunc(ctx, guildID)
	}

	return []model.Emoji{}, nil
}

func (m *MockReactionRoleCaller) Channels(ctx context.Context, guildID string) ([]model.Channel, error) {
	if m.ChannelsFunc != nil {
		return m.ChannelsFunc(ctx, guildID)
	}

	return []model.Channel{}, nil
}

func (m *MockReactionRoleCaller) Roles(ctx context.Context, guildID string) ([]model.Role, error) {
	if m.RolesFunc != nil {
		return m.RolesFunc(ctx, guildID)
	}

	return []model.Role{}, nil
}
