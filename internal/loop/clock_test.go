package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockCapsLongFrames(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewClock(33 * time.Millisecond)
	c.Reset(start)

	assert.Equal(t, 16*time.Millisecond, c.Tick(start.Add(16*time.Millisecond)))
	assert.Equal(t, 33*time.Millisecond, c.Tick(start.Add(2*time.Second)), "stall is capped")
	assert.Equal(t, 10*time.Millisecond, c.Tick(start.Add(2*time.Second+10*time.Millisecond)))
}

func TestClockNeverGoesNegative(t *testing.T) {
	start := time.Unix(10, 0)
	c := NewClock(33 * time.Millisecond)
	c.Reset(start)

	assert.Equal(t, time.Duration(0), c.Tick(start.Add(-time.Second)))
}
