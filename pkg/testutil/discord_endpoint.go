package testutil

import (
	"context"
	"errors"

	"github.com/questx-lab/reactrole/pkg/api/discord"
)

type MockDiscordEndpoint struct {
	GetGuildFunc    func(ctx context.Context, guildID string) (discord.Guild, error)
	GetRolesFunc    func(ctx context.Context, guildID string) ([]discord.Role, error)
	GetChannelsFunc func(ctx context.Context, guildID string) ([]discord.Channel, error)
	GetEmojisFunc   func(ctx context.Context, guildID string) ([]discord.Emoji, error)
	SendMessageFunc func(ctx context.Context, channelID, content string) (discord.Message, error)
	EditMessageFunc func(ctx context.Context, channelID, messageID, content string) error
	AddReactionFunc func(ctx context.Context, channelID, messageID, emoji string) error
	GiveRoleFunc    func(ctx context.Context, guildID, userID, roleID string) error
	RemoveRoleFunc  func(ctx context.Context, guildID, userID, roleID string) error
}

func (e *MockDiscordEndpoint) GetGuild(ctx context.Context, guildID string) (discord.Guild, error) {
	if e.GetGuildFunc != nil {
		return e.GetGuildFunc(ctx, guildID)
	}

	return discord.Guild{}, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) GetRoles(ctx context.Context, guildID string) ([]discord.Role, error) {
	if e.GetRolesFunc != nil {
		return e.GetRolesFunc(ctx, guildID)
	}

	return nil, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) GetChannels(ctx context.Context, guildID string) ([]discord.Channel, error) {
	if e.GetChannelsFunc != nil {
		return e.GetChannelsFunc(ctx, guildID)
	}

	return nil, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) GetEmojis(ctx context.Context, guildID string) ([]discord.Emoji, error) {
	if e.GetEmojisFunc != nil {
		return e.GetEmojisFunc(ctx, guildID)
	}

	return nil, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) SendMessage(
	ctx context.Context, channelID, content string,
) (discord.Message, error) {
	if e.SendMessageFunc != nil {
		return e.SendMessageFunc(ctx, channelID, content)
	}

	return discord.Message{}, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	if e.EditMessageFunc != nil {
		return e.EditMessageFunc(ctx, channelID, messageID, content)
	}

	return errors.New("not implemented")
}

func (e *MockDiscordEndpoint) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if e.AddReactionFunc != nil {
		return e.AddReactionFunc(ctx, channelID, messageID, emoji)
	}

	return nil
}

func (e *MockDiscordEndpoint) GiveRole(ctx context.Context, guildID, userID, roleID string) error {
	if e.GiveRoleFunc != nil {
		return e.GiveRoleFunc(ctx, guildID, userID, roleID)
	}

	return errors.New("not implemented")
}

func (e *MockDiscordEndpoint) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	if e.RemoveRoleFunc != nil {
		return e.RemoveRoleFunc(ctx, guildID, userID, roleID)
	}

	return errors.New("not implemented")
}
