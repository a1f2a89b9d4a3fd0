package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_AfterFunc(t *testing.T) {
	var fired atomic.Int32
	System{}.AfterFunc(5*time.Millisecond, func() { fired.Add(1) })

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)
}

func TestSystem_AfterFuncStop(t *testing.T) {
	var fired atomic.Int32
	timer := System{}.AfterFunc(50*time.Millisecond, func() { fired.Add(1) })

	assert.True(t, timer.Stop())
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestSystem_Every(t *testing.T) {
	var ticks atomic.Int32
	timer := System{}.Every(2*time.Millisecond, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second Stop reports already stopped")

	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, ticks.Load(), after+1)
}
