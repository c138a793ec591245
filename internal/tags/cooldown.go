package tags

import (
	"sync"
	"time"
)

// Cooldowns tracks when each player last changed their tag. It is safe for
// concurrent use: chat formatting may consult it from any connection.
type Cooldowns struct {
	window time.Duration
	now    func() time.Time
	last   sync.Map // player id -> unix millis
}

// NewCooldowns returns a tracker enforcing the given minimum gap between changes.
func NewCooldowns(window time.Duration) *Cooldowns {
	if window < 0 {
		window = 0
	}
	return &Cooldowns{window: window, now: time.Now}
}

func (c *Cooldowns) nowMillis() int64 {
	return c.now().UnixMilli()
}

// lastChange reports when id last changed its tag, if ever.
func (c *Cooldowns) lastChange(id string) (int64, bool) {
	v, ok := c.last.Load(id)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

// CanChange reports whether id may change its tag now. Exempt callers are
// always allowed, as is anyone without a recorded change.
func (c *Cooldowns) CanChange(id string, exempt bool) bool {
	if exempt {
		return true
	}
	last, ok := c.lastChange(id)
	return !ok || c.nowMillis()-last >= c.window.Milliseconds()
}

// RemainingSeconds returns the whole seconds, rounded up, until id may change
// its tag again. It never goes below zero.
func (c *Cooldowns) RemainingSeconds(id string) int {
	last, ok := c.lastChange(id)
	if !ok {
		return 0
	}
	remaining := (last + c.window.Milliseconds() - c.nowMillis() + 999) / 1000
	return int(max(remaining, 0))
}

// MarkChanged records a change for id at the current time.
func (c *Cooldowns) MarkChanged(id string) {
	c.last.Store(id, c.nowMillis())
}
