package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 1, 24, 9, 0, 0, 0, time.UTC)

func TestManualClock_NowOnlyMovesOnAdvance(t *testing.T) {
	c := NewManualClock(epoch)
	assert.Equal(t, epoch, c.Now())

	c.Advance(time.Minute)
	assert.Equal(t, epoch.Add(time.Minute), c.Now())
}

func TestManualClock_AfterFuncFiresOnce(t *testing.T) {
	c := NewManualClock(epoch)
	fired := 0
	c.AfterFunc(300*time.Millisecond, func() { fired++ })

	c.Advance(299 * time.Millisecond)
	assert.Equal(t, 0, fired)

	c.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)

	c.Advance(time.Second)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestManualClock_StopPreventsFiring(t *testing.T) {
	c := NewManualClock(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestManualClock_EveryRepeats(t *testing.T) {
	c := NewManualClock(epoch)
	var at []time.Time
	timer := c.Every(10*time.Second, func() { at = append(at, c.Now()) })

	c.Advance(35 * time.Second)
	assert.Equal(t, []time.Time{
		epoch.Add(10 * time.Second),
		epoch.Add(20 * time.Second),
		epoch.Add(30 * time.Second),
	}, at)

	timer.Stop()
	c.Advance(time.Minute)
	assert.Len(t, at, 3)
}

func TestManualClock_FiresInDueOrder(t *testing.T) {
	c := NewManualClock(epoch)
	var order []string
	c.AfterFunc(2*time.Second, func() { order = append(order, "late") })
	c.AfterFunc(time.Second, func() { order = append(order, "early") })
	c.AfterFunc(time.Second, func() { order = append(order, "early-second") })

	c.Advance(5 * time.Second)
	assert.Equal(t, []string{"early", "early-second", "late"}, order)
}

func TestManualClock_CallbackMaySchedule(t *testing.T) {
	c := NewManualClock(epoch)
	fired := 0
	c.AfterFunc(time.Second, func() {
		fired++
		c.AfterFunc(time.Second, func() { fired++ })
	})

	c.Advance(3 * time.Second)
	assert.Equal(t, 2, fired)
}
