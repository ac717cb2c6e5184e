package loop

import "time"

// Clock measures the time between frames. Steps are capped so a stalled
// host never produces one huge simulation step.
type Clock struct {
	last    time.Time
	maxStep time.Duration
}

// NewClock creates a clock that never reports more than maxStep.
func NewClock(maxStep time.Duration) *Clock {
	return &Clock{maxStep: maxStep}
}

// Reset makes now the reference point for the next Tick.
func (c *Clock) Reset(now time.Time) {
	c.last = now
}

// Tick returns the capped time since the previous Tick or Reset.
// Time going backwards yields a zero step.
func (c *Clock) Tick(now time.Time) time.Duration {
	d := now.Sub(c.last)
	c.last = now
	if d < 0 {
		return 0
	}
	return min(d, c.maxStep)
}
