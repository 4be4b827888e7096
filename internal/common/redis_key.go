package common

import "fmt"

func RedisKeyGuildEmojis(guildID string) string {
	return fmt.Sprintf("guild:%s:emojis", guildID)
}

func RedisKeyGuildChannels(guildID string) string {
	return fmt.Sprintf("guild:%s:channels", guildID)
}

func RedisKeyGuildRoles(guildID string) string {
	return fmt.Sprintf("guild:%s:roles", guildID)
}
