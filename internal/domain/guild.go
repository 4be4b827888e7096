package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/reactrole/internal/common"
	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/pkg/api/discord"
	"github.com/questx-lab/reactrole/pkg/errorx"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"github.com/questx-lab/reactrole/pkg/xredis"
)

type GuildDomain interface {
	GetEmojis(context.Context, *model.GetGuildEmojisRequest) (*model.GetGuildEmojisResponse, error)
	GetChannels(context.Context, *model.GetGuildChannelsRequest) (*model.GetGuildChannelsResponse, error)
	GetRoles(context.Context, *model.GetGuildRolesRequest) (*model.GetGuildRolesResponse, error)
}

type guildDomain struct {
	guildVerifier   *common.GuildVerifier
	discordEndpoint discord.IEndpoint
	redisClient     xredis.Client
}

func NewGuildDomain(
	guildVerifier *common.GuildVerifier,
	discordEndpoint discord.IEndpoint,
	redisClient xredis.Client,
) GuildDomain {
	return &guildDomain{
		guildVerifier:   guildVerifier,
		discordEndpoint: discordEndpoint,
		redisClient:     redisClient,
	}
}

func (d *guildDomain) GetEmojis(
	ctx context.Context, req *model.GetGuildEmojisRequest,
) (*model.GetGuildEmojisResponse, error) {
	if err := d.verify(ctx, req.GuildID); err != nil {
		return nil, err
	}

	emojis, err := cached(ctx, d.redisClient, common.RedisKeyGuildEmojis(req.GuildID),
		func() ([]discord.Emoji, error) {
			return d.discordEndpoint.GetEmojis(ctx, req.GuildID)
		})
	if err != nil {
		return nil, discordError(ctx, err, "Cannot get emojis of the guild")
	}

	return &model.GetGuildEmojisResponse{Emojis: convertEmojis(emojis)}, nil
}

func (d *guildDomain) GetChannels(
	ctx context.Context, req *model.GetGuildChannelsRequest,
) (*model.GetGuildChannelsResponse, error) {
	if err := d.verify(ctx, req.GuildID); err != nil {
		return nil, err
	}

	channels, err := cached(ctx, d.redisClient, common.RedisKeyGuildChannels(req.GuildID),
		func() ([]discord.Channel, error) {
			return d.discordEndpoint.GetChannels(ctx, req.GuildID)
		})
	if err != nil {
		return nil, discordError(ctx, err, "Cannot get channels of the guild")
	}

	return &model.GetGuildChannelsResponse{Channels: convertChannels(channels)}, nil
}

func (d *guildDomain) GetRoles(
	ctx context.Context, req *model.GetGuildRolesRequest,
) (*model.GetGuildRolesResponse, error) {
	if err := d.verify(ctx, req.GuildID); err != nil {
		return nil, err
	}

	roles, err := cached(ctx, d.redisClient, common.RedisKeyGuildRoles(req.GuildID),
		func() ([]discord.Role, error) {
			return d.discordEndpoint.GetRoles(ctx, req.GuildID)
		})
	if err != nil {
		return nil, discordError(ctx, err, "Cannot get roles of the guild")
	}

	return &model.GetGuildRolesResponse{Roles: convertRoles(roles)}, nil
}

func (d *guildDomain) verify(ctx context.Context, guildID string) error {
	if guildID == "" {
		return errorx.New(errorx.BadRequest, "Not allow empty guild id")
	}

	if err := d.guildVerifier.Verify(ctx, guildID); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return nil
}

// cached returns the value stored at key, or loads and stores it. A failure of
// redis never fails the request.
func cached[T any](
	ctx context.Context, redisClient xredis.Client, key string, load func() (T, error),
) (T, error) {
	var value T
	err := redisClient.GetObj(ctx, key, &value)
	if err == nil {
		return value, nil
	}

	if !errors.Is(err, xredis.ErrNotFound) {
		xcontext.Logger(ctx).Warnf("Cannot get %s from redis: %v", key, err)
	}

	value, err = load()
	if err != nil {
		return value, err
	}

	if err := redisClient.SetObj(ctx, key, value, xcontext.Configs(ctx).Redis.TTL); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot set %s to redis: %v", key, err)
	}

	return value, nil
}
