package entity

import "github.com/questx-lab/reactrole/pkg/enum"

type ReactionType string

var (
	// ReactionToggle gives the role when the member reacts and removes it when
	// the reaction is removed.
	ReactionToggle = enum.New(ReactionType("toggle"))

	// ReactionAddOnly only gives the role, removing the reaction does nothing.
	ReactionAddOnly = enum.New(ReactionType("add_only"))

	// ReactionRemoveOnly removes the role when the member reacts.
	ReactionRemoveOnly = enum.New(ReactionType("remove_only"))
)

// ReactionRoleGroup is a message configured for reaction roles. A guild can
// not configure the same message twice.
type ReactionRoleGroup struct {
	Base
	GuildID       string `gorm:"not null;uniqueIndex:idx_reaction_role_groups_guild_message,priority:1"`
	MessageID     string `gorm:"not null;uniqueIndex:idx_reaction_role_groups_guild_message,priority:2"`
	ChannelID     string `gorm:"not null"`
	Title         string
	CustomMessage string
	Status        bool
	CreatedBy     string

	Bindings []ReactionBinding `gorm:"foreignKey:GroupID"`
}

type ReactionBinding struct {
	Base
	GroupID  string `gorm:"not null;index"`
	Emoji    string `gorm:"not null"`
	RoleID   string `gorm:"not null"`
	Type     ReactionType
	Position int
}
