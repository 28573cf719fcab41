package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClockFiresDueTimersInOrder(t *testing.T) {
	c := NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	var fired []string
	c.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "late") })
	c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "early") })
	stopped := c.AfterFunc(150*time.Millisecond, func() { fired = append(fired, "stopped") })

	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	c.Advance(50 * time.Millisecond)
	assert.Empty(t, fired)

	c.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"early", "late"}, fired)
	assert.Equal(t, 0, c.Pending())
}
