package dashboard

import "github.com/questx-lab/reactrole/internal/model"

// Group is a row of the reaction role table.
type Group struct {
	model.ReactionRoleGroup
}

// StatusKey is the id used to toggle the status of the group. Rows from a
// server without group ids fall back to the id of the first binding.
func (g Group) StatusKey() string {
	if g.ID != "" {
		return g.ID
	}

	if len(g.Reactions) > 0 {
		return g.Reactions[0].ID
	}

	return ""
}

// Project groups the flat rows by message id. Groups keep the order in which
// their message is first seen and bindings keep the order of the rows. The
// group fields are taken from the first row of each message. Rows without a
// message id form a single group.
func Project(rows []model.ReactionRoleRow) []Group {
	groups := []Group{}
	indexes := map[string]int{}

	for _, row := range rows {
		index, ok := indexes[row.MessageID]
		if !ok {
			index = len(groups)
			indexes[row.MessageID] = index
			groups = append(groups, Group{model.ReactionRoleGroup{
				ID:            row.GroupID,
				GuildID:       row.GuildID,
				MessageID:     row.MessageID,
				ChannelID:     row.ChannelID,
				Title:         row.Title,
				CustomMessage: row.CustomMessage,
				Status:        row.Status,
				Reactions:     []model.ReactionBinding{},
			}})
		}

		groups[index].Reactions = append(groups[index].Reactions, model.ReactionBinding{
			ID:     row.ID,
			Emoji:  row.Emoji,
			RoleID: row.RoleID,
			Type:   row.Type,
		})
	}

	return groups
}
