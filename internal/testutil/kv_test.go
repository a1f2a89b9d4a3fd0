package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quire/internal/kv"
)

func TestFailingKV_PassesThroughWhenDisarmed(t *testing.T) {
	ctx := context.Background()
	f := NewFailingKV(kv.NewMemory())

	require.NoError(t, f.Set(ctx, "k", "v"))
	assert.Equal(t, 1, f.SetCalls("k"))

	var v string
	found, err := f.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

func TestFailingKV_InjectsFailures(t *testing.T) {
	ctx := context.Background()
	f := NewFailingKV(kv.NewMemory())

	f.FailSets(true)
	assert.ErrorIs(t, f.Set(ctx, "k", "v"), ErrInjected)
	assert.ErrorIs(t, f.Remove(ctx, "k"), ErrInjected)
	assert.Equal(t, 0, f.SetCalls("k"))

	f.FailGets(true)
	var v string
	_, err := f.Get(ctx, "k", &v)
	assert.ErrorIs(t, err, ErrInjected)
}
