package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedView struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemorySetGet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	var out cachedView
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrMiss)

	require.NoError(t, c.Set(ctx, "k", cachedView{Name: "docs", Count: 3}, time.Minute))
	require.NoError(t, c.Get(ctx, "k", &out))
	assert.Equal(t, cachedView{Name: "docs", Count: 3}, out)
}

func TestMemoryExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newMemory(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", cachedView{Name: "docs"}, time.Minute))

	now = now.Add(2 * time.Minute)
	var out cachedView
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrMiss)
}

func TestMemoryDelete(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", cachedView{}, time.Minute))

	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"))

	var out cachedView
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrMiss)
}

func TestMemoryInvalidateTags(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "room:1:view", cachedView{Name: "a"}, time.Minute, "room:1"))
	require.NoError(t, c.Set(ctx, "room:1:tree", cachedView{Name: "b"}, time.Minute, "room:1"))
	require.NoError(t, c.Set(ctx, "room:2:view", cachedView{Name: "c"}, time.Minute, "room:2"))

	require.NoError(t, c.InvalidateTags(ctx, "room:1"))

	var out cachedView
	assert.ErrorIs(t, c.Get(ctx, "room:1:view", &out), ErrMiss)
	assert.ErrorIs(t, c.Get(ctx, "room:1:tree", &out), ErrMiss)
	assert.NoError(t, c.Get(ctx, "room:2:view", &out))
}

func TestMemoryOverwriteRetags(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", cachedView{Name: "old"}, time.Minute, "room:1"))
	require.NoError(t, c.Set(ctx, "k", cachedView{Name: "new"}, time.Minute, "room:2"))

	require.NoError(t, c.InvalidateTags(ctx, "room:1"))

	var out cachedView
	require.NoError(t, c.Get(ctx, "k", &out))
	assert.Equal(t, "new", out.Name)
}
