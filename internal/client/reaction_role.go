package client

import (
	"context"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/pkg/api"
	"github.com/questx-lab/reactrole/pkg/session"
	"github.com/questx-lab/reactrole/pkg/xcontext"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type ReactionRoleCaller interface {
	List(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error)
	Create(ctx context.Context, guildID string, draft model.ReactionRoleGroup, idempotencyKey string) (*model.ReactionRoleGroup, error)
	Update(ctx context.Context, groupID, guildID string, draft model.ReactionRoleGroup) (*model.ReactionRoleGroup, error)
	DeleteByMessage(ctx context.Context, messageID, guildID string) error
	SetBindingStatus(ctx context.Context, id, guildID string, status bool) error

	GuildEmojis(ctx context.Context, guildID string) ([]model.Emoji, error)
	Channels(ctx context.Context, guildID string) ([]model.Channel, error)
	Roles(ctx context.Context, guildID string) ([]model.Role, error)
}

type reactionRoleCaller struct {
	apiGenerator api.Generator
	session      *session.Session
}

func NewReactionRoleCaller(apiURL string, s *session.Session) *reactionRoleCaller {
	return &reactionRoleCaller{
		apiGenerator: api.NewGenerator(apiURL),
		session:      s,
	}
}

func (c *reactionRoleCaller) List(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
	data, err := c.call(ctx, http.MethodGet, c.apiGenerator.New("/api/roles/reaction-roles").
		Query(api.Parameter{"guildId": guildID}))
	if err != nil {
		return nil, err
	}

	var resp model.GetReactionRolesResponse
	if err := decode(data, &resp); err != nil {
		return nil, err
	}

	return resp.ReactionRoles, nil
}

func (c *reactionRoleCaller) Create(
	ctx context.Context, guildID string, draft model.ReactionRoleGroup, idempotencyKey string,
) (*model.ReactionRoleGroup, error) {
	body := draftBody(guildID, draft)
	if draft.MessageID != "" {
		body["messageId"] = draft.MessageID
	}

	client := c.apiGenerator.New("/api/roles/reaction-roles").Body(body)
	if idempotencyKey != "" {
		client = client.Header(IdempotencyKeyHeader, idempotencyKey)
	}

	data, err := c.call(ctx, http.MethodPost, client)
	if err != nil {
		return nil, err
	}

	var group model.ReactionRoleGroup
	if err := decode(data, &group); err != nil {
		return nil, err
	}

	return &group, nil
}

// Update never sends the message id, it cannot be changed.
func (c *reactionRoleCaller) Update(
	ctx context.Context, groupID, guildID string, draft model.ReactionRoleGroup,
) (*model.ReactionRoleGroup, error) {
	data, err := c.call(ctx, http.MethodPut, c.apiGenerator.New("/api/roles/reaction-roles/%s", groupID).
		Body(draftBody(guildID, draft)))
	if err != nil {
		return nil, err
	}

	var group model.ReactionRoleGroup
	if err := decode(data, &group); err != nil {
		return nil, err
	}

	return &group, nil
}

func (c *reactionRoleCaller) DeleteByMessage(ctx context.Context, messageID, guildID string) error {
	_, err := c.call(ctx, http.MethodDelete, c.apiGenerator.New("/api/roles/reaction-roles/message/%s", messageID).
		Body(api.JSON{"guildId": guildID}))
	return err
}

func (c *reactionRoleCaller) SetBindingStatus(ctx context.Context, id, guildID string, status bool) error {
	_, err := c.call(ctx, http.MethodPatch, c.apiGenerator.New("/api/roles/reaction-roles/%s/status", id).
		Body(api.JSON{"guildId": guildID, "status": status}))
	return err
}

func (c *reactionRoleCaller) GuildEmojis(ctx context.Context, guildID string) ([]model.Emoji, error) {
	data, err := c.call(ctx, http.MethodGet, c.apiGenerator.New("/api/guilds/%s/emojis", guildID))
	if err != nil {
		return nil, err
	}

	var resp model.GetGuildEmojisResponse
	if err := decode(data, &resp); err != nil {
		return nil, err
	}

	return resp.Emojis, nil
}

func (c *reactionRoleCaller) Channels(ctx context.Context, guildID string) ([]model.Channel, error) {
	data, err := c.call(ctx, http.MethodGet, c.apiGenerator.New("/api/guilds/%s/channels", guildID))
	if err != nil {
		return nil, err
	}

	var resp model.GetGuildChannelsResponse
	if err := decode(data, &resp); err != nil {
		return nil, err
	}

	return resp.Channels, nil
}

func (c *reactionRoleCaller) Roles(ctx context.Context, guildID string) ([]model.Role, error) {
	data, err := c.call(ctx, http.MethodGet, c.apiGenerator.New("/api/guilds/%s/roles", guildID))
	if err != nil {
		return nil, err
	}

	var resp model.GetGuildRolesResponse
	if err := decode(data, &resp); err != nil {
		return nil, err
	}

	return resp.Roles, nil
}

// call sends the request with the token of the session and returns the data
// field of the response. A response arriving after ctx is done is dropped.
func (c *reactionRoleCaller) call(ctx context.Context, method string, client api.Client) (api.JSON, error) {
	token, err := c.session.Acquire(ctx)
	if err != nil {
		return nil, &UnauthorizedError{Message: err.Error()}
	}

	var resp *api.Response
	auth := api.Bearer(token)
	switch method {
	case http.MethodGet:
		resp, err = client.GET(ctx, auth)
	case http.MethodPost:
		resp, err = client.POST(ctx, auth)
	case http.MethodPut:
		resp, err = client.PUT(ctx, auth)
	case http.MethodPatch:
		resp, err = client.PATCH(ctx, auth)
	case http.MethodDelete:
		resp, err = client.DELETE(ctx, auth)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	body, _ := resp.Body.(api.JSON)
	message, _ := body.GetString("message")

	if resp.Code == http.StatusUnauthorized {
		c.session.Invalidate()
		if message == "" {
			message = "Your session has expired, please login again"
		}
		return nil, &UnauthorizedError{Message: message}
	}

	if !resp.IsSuccess() {
		code, _ := body.GetInt("code")
		xcontext.Logger(ctx).Debugf("%s responded %d: %s", method, resp.Code, message)
		return nil, &ValidationError{Status: resp.Code, Code: int64(code), Message: message}
	}

	data, err := body.GetJSON("data")
	if err != nil || data == nil {
		return api.JSON{}, nil
	}

	return data, nil
}

func draftBody(guildID string, draft model.ReactionRoleGroup) api.JSON {
	reactions := []api.JSON{}
	for _, r := range draft.Reactions {
		reaction := api.JSON{"emoji": r.Emoji, "roleId": r.RoleID, "type": r.Type}
		if r.ID != "" {
			reaction["id"] = r.ID
		}
		reactions = append(reactions, reaction)
	}

	body := api.JSON{
		"guildId":   guildID,
		"channelId": draft.ChannelID,
		"title":     draft.Title,
		"status":    draft.Status,
		"reactions": reactions,
	}

	if draft.CustomMessage != "" {
		body["customMessage"] = draft.CustomMessage
	}

	return body
}

func decode(data api.JSON, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(map[string]any(data))
}
