package deliveries

import (
	"github.com/questx-lab/reactrole/internal/domain"
	"github.com/questx-lab/reactrole/pkg/router"
)

// HTTPDelivery exposes the dashboard domains as REST routes.
type HTTPDelivery struct {
	reactionRoleDomain domain.ReactionRoleDomain
	guildDomain        domain.GuildDomain
}

func NewHTTPDelivery(
	reactionRoleDomain domain.ReactionRoleDomain,
	guildDomain domain.GuildDomain,
) *HTTPDelivery {
	return &HTTPDelivery{
		reactionRoleDomain: reactionRoleDomain,
		guildDomain:        guildDomain,
	}
}

// Register adds the routes to r. Every route needs the access token checked by
// auth.
func (d *HTTPDelivery) Register(r *router.Router, auth router.MiddlewareFunc) {
	authRouter := r.Branch()
	authRouter.Before(auth)
	{
		// Reaction role API
		router.GET(authRouter, "/api/roles/reaction-roles", d.reactionRoleDomain.GetList)
		router.POST(authRouter, "/api/roles/reaction-roles", d.reactionRoleDomain.Create)
		router.PUT(authRouter, "/api/roles/reaction-roles/:id", d.reactionRoleDomain.Update)
		router.PATCH(authRouter, "/api/roles/reaction-roles/:id/status", d.reactionRoleDomain.SetStatus)
		router.DELETE(authRouter, "/api/roles/reaction-roles/message/:messageId", d.reactionRoleDomain.DeleteByMessage)

		// Guild API
		router.GET(authRouter, "/api/guilds/:guildId/emojis", d.guildDomain.GetEmojis)
		router.GET(authRouter, "/api/guilds/:guildId/channels", d.guildDomain.GetChannels)
		router.GET(authRouter, "/api/guilds/:guildId/roles", d.guildDomain.GetRoles)
	}
}
