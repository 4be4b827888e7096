package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/reactrole/config"
	"github.com/questx-lab/reactrole/pkg/api"
)

const apiURL = "https://discord.com/api/v10"
const userAgent = "DiscordBot (https://github.com/questx-lab/reactrole, 1.0)"

const (
	giveRoleResource    = "give_role"
	removeRoleResource  = "remove_role"
	addReactionResource = "add_reaction"
	sendMessageResource = "send_message"
)

type Endpoint struct {
	BotToken string
	BotID    string

	apiGenerator      api.Generator
	rateLimitResource *xsync.MapOf[string, *xsync.MapOf[string, time.Time]]
}

func New(cfg config.DiscordConfigs) *Endpoint {
	return &Endpoint{
		BotToken:          cfg.BotToken,
		BotID:             cfg.BotID,
		apiGenerator:      api.NewGenerator(apiURL),
		rateLimitResource: xsync.NewMapOf[*xsync.MapOf[string, time.Time]](),
	}
}

func (e *Endpoint) GetGuild(ctx context.Context, guildID string) (Guild, error) {
	resp, err := e.apiGenerator.New("/guilds/%s", guildID).
		Header("User-Agent", userAgent).
		GET(ctx, api.Bot(e.BotToken))
	if err != nil {
		return Guild{}, err
	}

	if err := checkError(resp); err != nil {
		return Guild{}, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return Guild{}, errors.New("invalid response")
	}

	id, err := body.GetString("id")
	if err != nil {
		return Guild{}, err
	}

	ownerID, err := body.GetString("owner_id")
	if err != nil {
		return Guild{}, err
	}

	return Guild{ID: id, OwnerID: ownerID}, nil
}

func (e *Endpoint) GetRoles(ctx context.Context, guildID string) ([]Role, error) {
	array, err := e.getArray(ctx, "/guilds/%s/roles", guildID)
	if err != nil {
		return nil, err
	}

	roles := []Role{}
	for _, role := range array {
		id, err := role.GetString("id")
		if err != nil {
			return nil, err
		}

		name, err := role.GetString("name")
		if err != nil {
			return nil, err
		}

		position, _ := role.GetInt("position")
		managed, _ := role.GetBool("managed")

		roles = append(roles, Role{ID: id, Name: name, Position: position, Managed: managed})
	}

	return roles, nil
}

// GetChannels returns the channels where the bot can post a reaction role
// message, it means text and announcement channels.
func (e *Endpoint) GetChannels(ctx context.Context, guildID string) ([]Channel, error) {
	array, err := e.getArray(ctx, "/guilds/%s/channels", guildID)
	if err != nil {
		return nil, err
	}

	channels := []Channel{}
	for _, channel := range array {
		channelType, err := channel.GetInt("type")
		if err != nil {
			return nil, err
		}

		if channelType != GuildTextChannel && channelType != GuildAnnouncementChannel {
			continue
		}

		id, err := channel.GetString("id")
		if err != nil {
			return nil, err
		}

		name, err := channel.GetString("name")
		if err != nil {
			return nil, err
		}

		channels = append(channels, Channel{ID: id, Name: name, Type: channelType})
	}

	return channels, nil
}

func (e *Endpoint) GetEmojis(ctx context.Context, guildID string) ([]Emoji, error) {
	array, err := e.getArray(ctx, "/guilds/%s/emojis", guildID)
	if err != nil {
		return nil, err
	}

	emojis := []Emoji{}
	for _, emoji := range array {
		id, err := emoji.GetString("id")
		if err != nil {
			return nil, err
		}

		name, err := emoji.GetString("name")
		if err != nil {
			return nil, err
		}

		animated, _ := emoji.GetBool("animated")
		emojis = append(emojis, Emoji{ID: id, Name: name, Animated: animated})
	}

	return emojis, nil
}

func (e *Endpoint) SendMessage(ctx context.Context, channelID, content string) (Message, error) {
	if err := e.checkLimitingResource(sendMessageResource, channelID); err != nil {
		return Message{}, err
	}

	resp, err := e.apiGenerator.New("/channels/%s/messages", channelID).
		Header("User-Agent", userAgent).
		Body(api.JSON{"content": content}).
		POST(ctx, api.Bot(e.BotToken))
	if err != nil {
		return Message{}, err
	}

	if err := e.checkTooManyRequest(resp, sendMessageResource, channelID); err != nil {
		return Message{}, err
	}

	if err := checkError(resp); err != nil {
		return Message{}, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return Message{}, errors.New("invalid response")
	}

	id, err := body.GetString("id")
	if err != nil {
		return Message{}, err
	}

	return Message{ID: id, ChannelID: channelID}, nil
}

func (e *Endpoint) EditMessage(ctx context.Context, channelID, messageID, content string) error {
	if err := e.checkLimitingResource(sendMessageResource, channelID); err != nil {
		return err
	}

	resp, err := e.apiGenerator.New("/channels/%s/messages/%s", channelID, messageID).
		Header("User-Agent", userAgent).
		Body(api.JSON{"content": content}).
		PATCH(ctx, api.Bot(e.BotToken))
	if err != nil {
		return err
	}

	if err := e.checkTooManyRequest(resp, sendMessageResource, channelID); err != nil {
		return err
	}

	return checkError(resp)
}

func (e *Endpoint) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := e.checkLimitingResource(addReactionResource, channelID); err != nil {
		return err
	}

	resp, err := e.apiGenerator.New(
		"/channels/%s/messages/%s/reactions/%s/@me", channelID, messageID, reactionPath(emoji)).
		Header("User-Agent", userAgent).
		PUT(ctx, api.Bot(e.BotToken))
	if err != nil {
		return err
	}

	if err := e.checkTooManyRequest(resp, addReactionResource, channelID); err != nil {
		return err
	}

	return checkError(resp)
}

func (e *Endpoint) GiveRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := e.checkLimitingResource(giveRoleResource, guildID); err != nil {
		return err
	}

	resp, err := e.apiGenerator.New("/guilds/%s/members/%s/roles/%s", guildID, userID, roleID).
		Header("User-Agent", userAgent).
		PUT(ctx, api.Bot(e.BotToken))
	if err != nil {
		return err
	}

	if err := e.checkTooManyRequest(resp, giveRoleResource, guildID); err != nil {
		return err
	}

	return checkError(resp)
}

func (e *Endpoint) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := e.checkLimitingResource(removeRoleResource, guildID); err != nil {
		return err
	}

	resp, err := e.apiGenerator.New("/guilds/%s/members/%s/roles/%s", guildID, userID, roleID).
		Header("User-Agent", userAgent).
		DELETE(ctx, api.Bot(e.BotToken))
	if err != nil {
		return err
	}

	if err := e.checkTooManyRequest(resp, removeRoleResource, guildID); err != nil {
		return err
	}

	return checkError(resp)
}

func (e *Endpoint) getArray(ctx context.Context, path string, args ...any) (api.Array, error) {
	resp, err := e.apiGenerator.New(path, args...).
		Header("User-Agent", userAgent).
		GET(ctx, api.Bot(e.BotToken))
	if err != nil {
		return nil, err
	}

	if err := checkError(resp); err != nil {
		return nil, err
	}

	array, ok := resp.Body.(api.Array)
	if !ok {
		return nil, errors.New("invalid response")
	}

	return array, nil
}

func (e *Endpoint) checkLimitingResource(resource, identifier string) error {
	if limit, ok := e.rateLimitResource.Load(resource); ok {
		if resetAt, ok := limit.Load(identifier); ok {
			if resetAt.After(time.Now()) {
				return wrapRateLimit(resetAt.Unix())
			}

			// If the rate limit is reset, delete the limit for this resource.
			limit.Delete(identifier)
		}
	}

	return nil
}

func (e *Endpoint) checkTooManyRequest(resp *api.Response, resource, identifier string) error {
	if resp.Code == http.StatusTooManyRequests {
		resetAt, err := strconv.Atoi(resp.Header.Get("X-Ratelimit-Reset"))
		if err != nil {
			return err
		}

		resourceLimiter, _ := e.rateLimitResource.LoadOrStore(resource, xsync.NewMapOf[time.Time]())
		resourceLimiter.Store(identifier, time.Unix(int64(resetAt), 0))
		return wrapRateLimit(int64(resetAt))
	}

	return nil
}

// checkError converts a non-2xx response into an error carrying the message
// returned by Discord.
func checkError(resp *api.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	if body, ok := resp.Body.(api.JSON); ok {
		if msg, err := body.GetString("message"); err == nil && msg != "" {
			return fmt.Errorf("discord responded %d: %s", resp.Code, msg)
		}
	}

	return fmt.Errorf("discord responded %d", resp.Code)
}
