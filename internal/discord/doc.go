// Package discord is the boundary to the external messaging platform.
//
// # Overview
//
// The rest of the bridge never touches discordgo directly. It consumes the
// Client interface, which exposes exactly the capabilities the relay needs:
//
//   - Ready(): is the gateway connection established
//   - CreateThread(ctx, title, post): provision a forum thread
//   - Send(ctx, threadID, post): post into an existing thread
//   - FetchThread(ctx, threadID): re-resolve a possibly stale handle
//   - OnlineSupportCount(ctx): presence-aware support head count
//   - BotUserID(): the bridge's own identity, for loop filtering
//
// # Bot
//
// Bot is the production implementation, wrapping a discordgo session with the
// Guilds, GuildMessages, MessageContent, GuildPresences and GuildMembers
// intents. Guild and channel lookups go through the session state cache first
// and fall back to the REST API.
//
// # Posts
//
// Outbound messages are built by the post constructors in posts.go so the
// product copy (embed colors, titles, field layout) lives in one place:
//
//	post := discord.VisitorPost(roleID, "hello", "/pricing", time.Now())
//	err := client.Send(ctx, threadID, post)
//
// # Presence
//
// PresenceCounts defines which presence states make a support member
// reachable: online, idle and do-not-disturb count; offline and invisible do
// not.
package discord
