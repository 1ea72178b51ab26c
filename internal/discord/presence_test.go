// ABOUTME: Tests for presence qualification.
// ABOUTME: Validates which presence states count as reachable support.

package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestPresenceCounts(t *testing.T) {
	tests := []struct {
		status discordgo.Status
		want   bool
	}{
		{discordgo.StatusOnline, true},
		{discordgo.StatusIdle, true},
		{discordgo.StatusDoNotDisturb, true},
		{discordgo.StatusOffline, false},
		{discordgo.StatusInvisible, false},
		{discordgo.Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, PresenceCounts(tt.status))
		})
	}
}
