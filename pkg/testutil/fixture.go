package testutil

import (
	"context"

	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/internal/repository"
)

var (
	// Guild1 has two groups, Guild2 has one.
	Guild1 = "guild1"
	Guild2 = "guild2"

	User1 = "user1"

	Group1 = entity.ReactionRoleGroup{
		Base:          entity.Base{ID: "group1"},
		GuildID:       Guild1,
		MessageID:     "message1",
		ChannelID:     "channel1",
		Title:         "Games",
		CustomMessage: "Pick your games",
		Status:        true,
		CreatedBy:     User1,
		Bindings: []entity.ReactionBinding{
			{
				Base:     entity.Base{ID: "binding1"},
				GroupID:  "group1",
				Emoji:    "🎮",
				RoleID:   "gamer",
				Type:     entity.ReactionToggle,
				Position: 0,
			},
			{
				Base:     entity.Base{ID: "binding2"},
				GroupID:  "group1",
				Emoji:    "<:chess:1001>",
				RoleID:   "chess",
				Type:     entity.ReactionAddOnly,
				Position: 1,
			},
		},
	}

	Group2 = entity.ReactionRoleGroup{
		Base:      entity.Base{ID: "group2"},
		GuildID:   Guild1,
		MessageID: "message2",
		ChannelID: "channel1",
		Title:     "Rules",
		Status:    false,
		CreatedBy: User1,
		Bindings: []entity.ReactionBinding{
			{
				Base:     entity.Base{ID: "binding3"},
				GroupID:  "group2",
				Emoji:    "✅",
				RoleID:   "member",
				Type:     entity.ReactionRemoveOnly,
				Position: 0,
			},
		},
	}

	Group3 = entity.ReactionRoleGroup{
		Base:          entity.Base{ID: "group3"},
		GuildID:       Guild2,
		MessageID:     "message3",
		ChannelID:     "channel2",
		Title:         "Colors",
		CustomMessage: "Pick a color",
		Status:        true,
		CreatedBy:     User1,
		Bindings: []entity.ReactionBinding{
			{
				Base:     entity.Base{ID: "binding4"},
				GroupID:  "group3",
				Emoji:    "🔴",
				RoleID:   "red",
				Type:     entity.ReactionToggle,
				Position: 0,
			},
		},
	}

	Groups = []entity.ReactionRoleGroup{Group1, Group2, Group3}
)

// CreateFixtureDb inserts the fixture groups into the database of the
// context.
func CreateFixtureDb(ctx context.Context) {
	repo := repository.NewReactionRoleRepository()
	for _, group := range Groups {
		group := group
		group.Bindings = append([]entity.ReactionBinding{}, group.Bindings...)
		if err := repo.Create(ctx, &group); err != nil {
			panic(err)
		}
	}
}
