package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questx-lab/reactrole/config"
	"github.com/questx-lab/reactrole/pkg/errorx"
	"github.com/questx-lab/reactrole/pkg/logger"
	"github.com/questx-lab/reactrole/pkg/router"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	ID      string `uri:"id" json:"-"`
	GuildID string `form:"guildId" json:"guildId"`
	Status  *bool  `json:"status"`
}

type echoResponse struct {
	ID      string `json:"id"`
	GuildID string `json:"guildId"`
	Status  *bool  `json:"status"`
	UserID  string `json:"userId"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.GuildID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty guild id")
	}

	return &echoResponse{
		ID:      req.ID,
		GuildID: req.GuildID,
		Status:  req.Status,
		UserID:  xcontext.RequestUserID(ctx),
	}, nil
}

func newTestRouter() *router.Router {
	r := router.New(nil, config.Default(), logger.NewLogger(logger.SILENCE))
	router.GET(r, "/items/:id", echo)
	router.PATCH(r, "/items/:id/status", echo)
	router.DELETE(r, "/items/:id", echo)

	authRouter := r.Branch()
	authRouter.Before(func(ctx context.Context) (context.Context, error) {
		if xcontext.HTTPRequest(ctx).Header.Get("Authorization") == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}
		return xcontext.WithRequestUserID(ctx, "user1"), nil
	})
	router.GET(authRouter, "/private/:id", echo)

	return r
}

func do(t *testing.T, h http.Handler, method, target, body string, header map[string]string) (int, router.Response) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp router.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func Test_Router(t *testing.T) {
	h := newTestRouter().Handler()

	testCases := []struct {
		name       string
		method     string
		target     string
		body       string
		header     map[string]string
		wantStatus int
		wantCode   int64
		wantData   map[string]any
	}{
		{
			name:       "query and uri",
			method:     http.MethodGet,
			target:     "/items/i1?guildId=g1",
			wantStatus: http.StatusOK,
			wantData:   map[string]any{"id": "i1", "guildId": "g1", "userId": ""},
		},
		{
			name:       "json body",
			method:     http.MethodPatch,
			target:     "/items/i2/status",
			body:       `{"guildId":"g2","status":false}`,
			wantStatus: http.StatusOK,
			wantData:   map[string]any{"id": "i2", "guildId": "g2", "status": false, "userId": ""},
		},
		{
			name:       "delete with body",
			method:     http.MethodDelete,
			target:     "/items/i3",
			body:       `{"guildId":"g3"}`,
			wantStatus: http.StatusOK,
			wantData:   map[string]any{"id": "i3", "guildId": "g3", "userId": ""},
		},
		{
			name:       "invalid json",
			method:     http.MethodPatch,
			target:     "/items/i2/status",
			body:       `{"guildId":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   int64(errorx.BadRequest),
		},
		{
			name:       "handler error",
			method:     http.MethodGet,
			target:     "/items/i1",
			wantStatus: http.StatusBadRequest,
			wantCode:   int64(errorx.BadRequest),
		},
		{
			name:       "middleware rejects",
			method:     http.MethodGet,
			target:     "/private/i1?guildId=g1",
			wantStatus: http.StatusUnauthorized,
			wantCode:   int64(errorx.Unauthenticated),
		},
		{
			name:       "middleware accepts",
			method:     http.MethodGet,
			target:     "/private/i1?guildId=g1",
			header:     map[string]string{"Authorization": "Bearer abc"},
			wantStatus: http.StatusOK,
			wantData:   map[string]any{"id": "i1", "guildId": "g1", "userId": "user1"},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := do(t, h, tt.method, tt.target, tt.body, tt.header)
			require.Equal(t, tt.wantStatus, status)
			require.Equal(t, tt.wantCode, resp.Code)
			if tt.wantData != nil {
				data := resp.Data.(map[string]any)
				for k, v := range tt.wantData {
					require.Equal(t, v, data[k], k)
				}
			} else {
				require.NotEmpty(t, resp.Message)
			}
		})
	}
}

func Test_Router_Closer(t *testing.T) {
	r := router.New(nil, config.Default(), logger.NewLogger(logger.SILENCE))

	var gotErr error
	closed := 0
	r.AddCloser(func(ctx context.Context) {
		closed++
		gotErr = xcontext.Error(ctx)
	})
	router.GET(r, "/items/:id", echo)

	status, _ := do(t, r.Handler(), http.MethodGet, "/items/i1", "", nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, 1, closed)
	require.Error(t, gotErr)
}

func Test_Router_CORS(t *testing.T) {
	tests := []struct {
		name            string
		origins         []string
		wantCredentials string
	}{
		{name: "wildcard", origins: []string{"*"}, wantCredentials: ""},
		{name: "dashboard origin", origins: []string{"https://dash.example"}, wantCredentials: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := router.New(nil, config.Default(), logger.NewLogger(logger.SILENCE))
			router.GET(r, "/items/:id", echo)

			req := httptest.NewRequest(http.MethodOptions, "/items/i1", nil)
			req.Header.Set("Origin", "https://dash.example")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			r.HandlerWithCORS(tt.origins).ServeHTTP(w, req)

			require.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
			require.Equal(t, tt.wantCredentials, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}
