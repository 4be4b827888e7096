package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/pkg/session"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

func newTestServer(t *testing.T, status int, response string, requests *[]recordedRequest) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header,
		}
		if r.ContentLength > 0 {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req.Body))
		}
		*requests = append(*requests, req)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server
}

func Test_reactionRoleCaller_Create(t *testing.T) {
	requests := []recordedRequest{}
	server := newTestServer(t, http.StatusOK, `{"code":0,"data":{
		"id":"g1","guildId":"guild1","messageId":"m1","channelId":"c1","title":"Welcome",
		"customMessage":"Pick a role","status":true,
		"reactions":[{"id":"b1","emoji":"🎮","roleId":"gamer","type":"toggle"}]}}`, &requests)

	c := NewReactionRoleCaller(server.URL, session.New(session.StaticToken("token")))
	group, err := c.Create(context.Background(), "guild1", model.ReactionRoleGroup{
		ChannelID:     "c1",
		Title:         "Welcome",
		CustomMessage: "Pick a role",
		Status:        true,
		Reactions:     []model.ReactionBinding{{Emoji: "🎮", RoleID: "gamer", Type: "toggle"}},
	}, "key-1")
	require.NoError(t, err)
	require.Equal(t, &model.ReactionRoleGroup{
		ID:            "g1",
		GuildID:       "guild1",
		MessageID:     "m1",
		ChannelID:     "c1",
		Title:         "Welcome",
		CustomMessage: "Pick a role",
		Status:        true,
		Reactions:     []model.ReactionBinding{{ID: "b1", Emoji: "🎮", RoleID: "gamer", Type: "toggle"}},
	}, group)

	require.Len(t, requests, 1)
	require.Equal(t, http.MethodPost, requests[0].Method)
	require.Equal(t, "/api/roles/reaction-roles", requests[0].Path)
	require.Equal(t, "Bearer token", requests[0].Header.Get("Authorization"))
	require.Equal(t, "key-1", requests[0].Header.Get(IdempotencyKeyHeader))
	require.Equal(t, map[string]any{
		"guildId":       "guild1",
		"channelId":     "c1",
		"title":         "Welcome",
		"customMessage": "Pick a role",
		"status":        true,
		"reactions": []any{
			map[string]any{"emoji": "🎮", "roleId": "gamer", "type": "toggle"},
		},
	}, requests[0].Body)
}

func Test_reactionRoleCaller_List(t *testing.T) {
	requests := []recordedRequest{}
	server := newTestServer(t, http.StatusOK, `{"code":0,"data":{"reactionRoles":[
		{"id":"b1","groupId":"g1","guildId":"guild1","messageId":"m1","channelId":"c1","status":true,"emoji":"🎮","roleId":"r1","type":"toggle"},
		{"id":"b2","groupId":"g1","guildId":"guild1","messageId":"m1","channelId":"c1","status":true,"emoji":"🔥","roleId":"r2","type":"add_only"}]}}`,
		&requests)

	c := NewReactionRoleCaller(server.URL, session.New(session.StaticToken("token")))
	rows, err := c.List(context.Background(), "guild1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "g1", rows[1].GroupID)
	require.Equal(t, "add_only", rows[1].Type)

	require.Equal(t, http.MethodGet, requests[0].Method)
	require.Equal(t, "guildId=guild1", requests[0].Query)
}

func Test_reactionRoleCaller_SetBindingStatus(t *testing.T) {
	requests := []recordedRequest{}
	server := newTestServer(t, http.StatusOK, `{"code":0,"data":{"id":"g1","status":false}}`, &requests)

	c := NewReactionRoleCaller(server.URL, session.New(session.StaticToken("token")))
	require.NoError(t, c.SetBindingStatus(context.Background(), "b42", "guild1", false))

	require.Equal(t, http.MethodPatch, requests[0].Method)
	require.Equal(t, "/api/roles/reaction-roles/b42/status", requests[0].Path)
	require.Equal(t, map[string]any{"guildId": "guild1", "status": false}, requests[0].Body)
}

func Test_reactionRoleCaller_DeleteByMessage(t *testing.T) {
	requests := []recordedRequest{}
	server := newTestServer(t, http.StatusOK, `{"code":0,"data":{}}`, &requests)

	c := NewReactionRoleCaller(server.URL, session.New(session.StaticToken("token")))
	require.NoError(t, c.DeleteByMessage(context.Background(), "m1", "guild1"))

	require.Equal(t, http.MethodDelete, requests[0].Method)
	require.Equal(t, "/api/roles/reaction-roles/message/m1", requests[0].Path)
	require.Equal(t, map[string]any{"guildId": "guild1"}, requests[0].Body)
}

func Test_reactionRoleCaller_Errors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		requests := []recordedRequest{}
		server := newTestServer(t, http.StatusBadRequest,
			`{"code":100001,"message":"Not allow empty channel id"}`, &requests)

		c := NewReactionRoleCaller(server.URL, session.New(session.StaticToken("token")))
		_, err := c.Update(context.Background(), "g1", "guild1", model.ReactionRoleGroup{})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, http.StatusBadRequest, verr.Status)
		require.Equal(t, int64(100001), verr.Code)
		require.Equal(t, "Not allow empty channel id", verr.Error())
	})

	t.Run("unauthorized", func(t *testing.T) {
		requests := []recordedRequest{}
		server := newTestServer(t, http.StatusUnauthorized,
			`{"code":100005,"message":"Invalid or expired access token"}`, &requests)

		s := session.New(session.StaticToken("token"))
		c := NewReactionRoleCaller(server.URL, s)
		_, err := c.List(context.Background(), "guild1")

		var uerr *UnauthorizedError
		require.ErrorAs(t, err, &uerr)
		require.Equal(t, "Invalid or expired access token", uerr.Message)
		require.True(t, s.Invalidated())
	})

	t.Run("no token", func(t *testing.T) {
		requests := []recordedRequest{}
		server := newTestServer(t, http.StatusOK, `{}`, &requests)

		c := NewReactionRoleCaller(server.URL, session.New(session.StaticToken("")))
		_, err := c.Roles(context.Background(), "guild1")

		var uerr *UnauthorizedError
		require.ErrorAs(t, err, &uerr)
		require.Empty(t, requests)
	})

	t.Run("network", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		c := NewReactionRoleCaller(url, session.New(session.StaticToken("token")))
		_, err := c.Channels(context.Background(), "guild1")

		var nerr *NetworkError
		require.ErrorAs(t, err, &nerr)
	})

	t.Run("canceled", func(t *testing.T) {
		requests := []recordedRequest{}
		server := newTestServer(t, http.StatusOK, `{"code":0,"data":{"emojis":[]}}`, &requests)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewReactionRoleCaller(server.URL, session.New(session.StaticToken("token")))
		_, err := c.GuildEmojis(ctx, "guild1")
		require.ErrorIs(t, err, context.Canceled)
	})
}
