package discord

import "fmt"

type Guild struct {
	ID      string
	OwnerID string
}

type Role struct {
	ID       string
	Name     string
	Position int
	Managed  bool
}

type Channel struct {
	ID   string
	Name string
	Type int
}

type Emoji struct {
	ID       string
	Name     string
	Animated bool
}

// Token returns the message form of a custom emoji.
func (e Emoji) Token() string {
	if e.Animated {
		return fmt.Sprintf("<a:%s:%s>", e.Name, e.ID)
	}
	return fmt.Sprintf("<:%s:%s>", e.Name, e.ID)
}

type Message struct {
	ID        string
	ChannelID string
}

const (
	GuildTextChannel         = 0
	GuildAnnouncementChannel = 5
)
