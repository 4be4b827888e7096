package model

type ReactionBinding struct {
	ID     string `json:"id,omitempty"`
	Emoji  string `json:"emoji"`
	RoleID string `json:"roleId"`
	Type   string `json:"type"`
}

type ReactionRoleGroup struct {
	ID            string            `json:"id,omitempty"`
	GuildID       string            `json:"guildId,omitempty"`
	MessageID     string            `json:"messageId,omitempty"`
	ChannelID     string            `json:"channelId"`
	Title         string            `json:"title,omitempty"`
	CustomMessage string            `json:"customMessage,omitempty"`
	Status        bool              `json:"status"`
	Reactions     []ReactionBinding `json:"reactions"`
}

// ReactionRoleRow is one binding of a group, with the group fields flattened.
type ReactionRoleRow struct {
	ID            string `json:"id"`
	GroupID       string `json:"groupId"`
	GuildID       string `json:"guildId"`
	MessageID     string `json:"messageId,omitempty"`
	ChannelID     string `json:"channelId"`
	Title         string `json:"title,omitempty"`
	CustomMessage string `json:"customMessage,omitempty"`
	Status        bool   `json:"status"`
	Emoji         string `json:"emoji"`
	RoleID        string `json:"roleId"`
	Type          string `json:"type"`
}

type GetReactionRolesRequest struct {
	GuildID string `form:"guildId" json:"guildId"`
}

type GetReactionRolesResponse struct {
	ReactionRoles []ReactionRoleRow `json:"reactionRoles"`
}

type CreateReactionRoleRequest struct {
	GuildID       string            `json:"guildId"`
	MessageID     string            `json:"messageId"`
	ChannelID     string            `json:"channelId"`
	Title         string            `json:"title"`
	CustomMessage string            `json:"customMessage"`
	Status        *bool             `json:"status"`
	Reactions     []ReactionBinding `json:"reactions"`
}

type CreateReactionRoleResponse struct {
	ReactionRoleGroup
}

type UpdateReactionRoleRequest struct {
	ID            string            `uri:"id" json:"-"`
	GuildID       string            `json:"guildId"`
	MessageID     string            `json:"messageId"`
	ChannelID     string            `json:"channelId"`
	Title         string            `json:"title"`
	CustomMessage string            `json:"customMessage"`
	Status        *bool             `json:"status"`
	Reactions     []ReactionBinding `json:"reactions"`
}

type UpdateReactionRoleResponse struct {
	ReactionRoleGroup
}

type DeleteReactionRoleRequest struct {
	MessageID string `uri:"messageId" json:"-"`
	GuildID   string `form:"guildId" json:"guildId"`
}

type DeleteReactionRoleResponse struct{}

type SetReactionRoleStatusRequest struct {
	ID      string `uri:"id" json:"-"`
	GuildID string `json:"guildId"`
	Status  *bool  `json:"status"`
}

type SetReactionRoleStatusResponse struct {
	ID     string `json:"id"`
	Status bool   `json:"status"`
}
