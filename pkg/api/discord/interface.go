package discord

import "context"

type IEndpoint interface {
	GetGuild(ctx context.Context, guildID string) (Guild, error)
	GetRoles(ctx context.Context, guildID string) ([]Role, error)
	GetChannels(ctx context.Context, guildID string) ([]Channel, error)
	GetEmojis(ctx context.Context, guildID string) ([]Emoji, error)
	SendMessage(ctx context.Context, channelID, content string) (Message, error)
	EditMessage(ctx context.Context, channelID, messageID, content string) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	GiveRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
}
