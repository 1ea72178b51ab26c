// ABOUTME: Presence qualification for support availability checks.
// ABOUTME: Online, idle and do-not-disturb count as reachable; offline and invisible do not.

package discord

import "github.com/bwmarrin/discordgo"

// PresenceCounts reports whether a presence status means a support member is
// reachable. Invisible members report StatusInvisible or StatusOffline to
// other clients, so both fall out naturally.
func PresenceCounts(status discordgo.Status) bool {
	switch status {
	case discordgo.StatusOnline, discordgo.StatusIdle, discordgo.StatusDoNotDisturb:
		return true
	default:
		return false
	}
}
