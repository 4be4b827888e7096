package common

import (
	"context"
	"errors"

	"github.com/questx-lab/reactrole/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// GuildVerifier checks that the requesting user manages the guild. The
// managed guilds are carried by the access token.
type GuildVerifier struct{}

func NewGuildVerifier() *GuildVerifier {
	return &GuildVerifier{}
}

func (verifier *GuildVerifier) Verify(ctx context.Context, guildID string) error {
	if xcontext.RequestUserID(ctx) == "" {
		return errors.New("user is not authenticated")
	}

	if !slices.Contains(xcontext.RequestGuilds(ctx), guildID) {
		return errors.New("user does not manage the guild")
	}

	return nil
}
