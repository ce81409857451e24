package editor

import "time"

// pinnedClock returns whatever instant the editor last pinned.
// Guarded by the owning Editor's mutex.
type pinnedClock struct {
	at time.Time
}

func (c *pinnedClock) Now() time.Time {
	return c.at
}
