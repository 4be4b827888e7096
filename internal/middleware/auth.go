package middleware

import (
	"context"
	"strings"

	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/pkg/authenticator"
	"github.com/questx-lab/reactrole/pkg/errorx"
	"github.com/questx-lab/reactrole/pkg/router"
	"github.com/questx-lab/reactrole/pkg/xcontext"
)

type AuthVerifier struct {
	accessTokenEngine authenticator.TokenEngine[model.AccessToken]
}

func NewAuthVerifier(engine authenticator.TokenEngine[model.AccessToken]) *AuthVerifier {
	return &AuthVerifier{accessTokenEngine: engine}
}

// Middleware puts the user and the managed guilds of the access token into
// the context.
func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := getAccessToken(ctx)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		info, err := a.accessTokenEngine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired access token")
		}

		if info.ID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired access token")
		}

		ctx = xcontext.WithRequestUserID(ctx, info.ID)
		ctx = xcontext.WithRequestGuilds(ctx, info.Guilds)
		return ctx, nil
	}
}

func getAccessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	auth, token, found := strings.Cut(authorization, " ")
	if found {
		if auth == "Bearer" {
			return token
		}
		return ""
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
