package domain

import (
	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/pkg/api/discord"
)

func convertReactionBindings(bindings []entity.ReactionBinding) []model.ReactionBinding {
	result := []model.ReactionBinding{}
	for _, b := range bindings {
		result = append(result, model.ReactionBinding{
			ID:     b.ID,
			Emoji:  b.Emoji,
			RoleID: b.RoleID,
			Type:   string(b.Type),
		})
	}

	return result
}

func convertReactionRoleGroup(group *entity.ReactionRoleGroup) model.ReactionRoleGroup {
	if group == nil {
		return model.ReactionRoleGroup{}
	}

	return model.ReactionRoleGroup{
		ID:            group.ID,
		GuildID:       group.GuildID,
		MessageID:     group.MessageID,
		ChannelID:     group.ChannelID,
		Title:         group.Title,
		CustomMessage: group.CustomMessage,
		Status:        group.Status,
		Reactions:     convertReactionBindings(group.Bindings),
	}
}

// convertReactionRoleRows flattens the groups into one row per binding, in
// the order of groups then bindings.
func convertReactionRoleRows(groups []entity.ReactionRoleGroup) []model.ReactionRoleRow {
	rows := []model.ReactionRoleRow{}
	for _, g := range groups {
		for _, b := range g.Bindings {
			rows = append(rows, model.ReactionRoleRow{
				ID:            b.ID,
				GroupID:       g.ID,
				GuildID:       g.GuildID,
				MessageID:     g.MessageID,
				ChannelID:     g.ChannelID,
				Title:         g.Title,
				CustomMessage: g.CustomMessage,
				Status:        g.Status,
				Emoji:         b.Emoji,
				RoleID:        b.RoleID,
				Type:          string(b.Type),
			})
		}
	}

	return rows
}

func convertEmojis(emojis []discord.Emoji) []model.Emoji {
	result := []model.Emoji{}
	for _, e := range emojis {
		result = append(result, model.Emoji{
			ID:       e.ID,
			Name:     e.Name,
			Animated: e.Animated,
			Token:    e.Token(),
		})
	}

	return result
}

func convertChannels(channels []discord.Channel) []model.Channel {
	result := []model.Channel{}
	for _, c := range channels {
		result = append(result, model.Channel{ID: c.ID, Name: c.Name, Type: c.Type})
	}

	return result
}

// convertRoles skips the roles managed by integrations, the bot cannot assign
// them.
func convertRoles(roles []discord.Role) []model.Role {
	result := []model.Role{}
	for _, r := range roles {
		if r.Managed {
			continue
		}
		result = append(result, model.Role{ID: r.ID, Name: r.Name, Position: r.Position})
	}

	return result
}
