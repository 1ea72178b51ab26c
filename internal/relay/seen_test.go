// ABOUTME: Tests for the redelivery guard's TTL and eviction behavior.
// ABOUTME: Uses tiny TTLs and sizes to exercise the sweep paths directly.

package relay

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeenCache_DetectsDuplicates(t *testing.T) {
	c := newSeenCache(time.Minute, 100)

	assert.False(t, c.CheckAndMark("m1"), "first sighting is not a duplicate")
	assert.True(t, c.CheckAndMark("m1"))
	assert.False(t, c.CheckAndMark("m2"))
}

func TestSeenCache_ExpiredEntriesAreForgotten(t *testing.T) {
	c := newSeenCache(10*time.Millisecond, 100)

	assert.False(t, c.CheckAndMark("m1"))
	time.Sleep(20 * time.Millisecond)
	assert.False(t, c.CheckAndMark("m1"), "expired entry no longer counts as seen")
}

func TestSeenCache_EvictsOldestWhenFull(t *testing.T) {
	c := newSeenCache(time.Hour, 3)

	for i := 0; i < 3; i++ {
		c.CheckAndMark(fmt.Sprintf("m%d", i))
		time.Sleep(time.Millisecond)
	}

	// Nothing has expired, so inserting m3 evicts the oldest entry (m0)
	assert.False(t, c.CheckAndMark("m3"))
	assert.True(t, c.CheckAndMark("m1"), "newer entries survive")
	assert.False(t, c.CheckAndMark("m0"), "oldest entry was evicted")
}
