// ABOUTME: Builders for the posts the bridge writes into conversation threads.
// ABOUTME: Keeps the product copy (titles, colors, fields) in one place.

package discord

import (
	"fmt"
	"time"
)

// Embed colors, carried over from the original widget branding.
const (
	colorBlue   = 0x0066CC // opening post
	colorOrange = 0xFF9900 // visitor message
	colorRed    = 0xFF0000 // visitor left
)

// threadTitleLayout renders "02/01/2006 15:04" style local timestamps used in
// thread titles.
const threadTitleLayout = "02/01/2006 15:04"

// ThreadTitle returns the display title for a newly provisioned thread.
func ThreadTitle(at time.Time) string {
	return "Chat du " + at.Format(threadTitleLayout)
}

// FallbackThreadTitle returns the visibly different title used on the
// degraded provisioning path.
func FallbackThreadTitle(origin string) string {
	return "SECOURS - Chat - IP: " + origin
}

// OpeningPost builds the first post of a provisioned thread: a support role
// mention plus structured visitor context.
func OpeningPost(roleID, sessionID, origin string, at time.Time) Post {
	return Post{
		Content: fmt.Sprintf("<@&%s> Nouveau visiteur", roleID),
		Embed: &Embed{
			Color:       colorBlue,
			Title:       "Nouveau message reçu",
			Description: "Un visiteur a envoyé un message et attend une réponse.",
			Fields: []EmbedField{
				{Name: "Session ID", Value: sessionID},
				{Name: "IP", Value: origin},
				{Name: "Date", Value: at.Format(threadTitleLayout)},
			},
			Timestamp: at,
		},
	}
}

// FallbackOpeningPost builds the minimal first post of a fallback thread:
// no role mention, no rich formatting, just the failure reason and session.
func FallbackOpeningPost(sessionID string, cause error) Post {
	return Post{
		Content: fmt.Sprintf("Erreur lors de la création du thread initial: %v\nSession ID: %s", cause, sessionID),
	}
}

// VisitorPost builds the relayed form of a visitor message, tagged with the
// support role and enriched with the originating page.
func VisitorPost(roleID, message, page string, at time.Time) Post {
	if page == "" {
		page = "Non spécifiée"
	}
	return Post{
		Content: fmt.Sprintf("<@&%s> Nouveau message du visiteur", roleID),
		Embed: &Embed{
			Color:       colorOrange,
			Title:       "Message du visiteur",
			Description: message,
			Fields: []EmbedField{
				{Name: "Page", Value: page},
			},
			Timestamp: at,
		},
	}
}

// DisconnectPost builds the best-effort notice posted when a visitor leaves.
func DisconnectPost(at time.Time) Post {
	return Post{
		Embed: &Embed{
			Color:       colorRed,
			Title:       "Client déconnecté",
			Description: "Le visiteur a quitté la conversation.",
			Timestamp:   at,
		},
	}
}
