package model

type Emoji struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Animated bool   `json:"animated"`
	Token    string `json:"token"`
}

type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

type Role struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type GetGuildEmojisRequest struct {
	GuildID string `uri:"guildId" json:"-"`
}

type GetGuildEmojisResponse struct {
	Emojis []Emoji `json:"emojis"`
}

type GetGuildChannelsRequest struct {
	GuildID string `uri:"guildId" json:"-"`
}

type GetGuildChannelsResponse struct {
	Channels []Channel `json:"channels"`
}

type GetGuildRolesRequest struct {
	GuildID string `uri:"guildId" json:"-"`
}

type GetGuildRolesResponse struct {
	Roles []Role `json:"roles"`
}
