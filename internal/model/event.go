package model

const ReactionRoleTopic = "reaction_role"

// ReactionRoleChangedEvent is published on every mutation of a group. The bot
// drops its cached group of the message.
type ReactionRoleChangedEvent struct {
	GuildID   string `json:"guild_id"`
	MessageID string `json:"message_id"`
	GroupID   string `json:"group_id"`
	Action    string `json:"action"`
}

const (
	ReactionRoleCreated = "created"
	ReactionRoleUpdated = "updated"
	ReactionRoleDeleted = "deleted"
	ReactionRoleStatus  = "status"
)
