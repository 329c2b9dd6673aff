package hotcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory(0)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v"))
	v, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestInMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory(1)
	c.entries["old"] = entry{value: "v", storedAt: time.Now().Add(-2 * time.Second)}

	_, ok := c.Get(ctx, "old")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestInMemory_Flush(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory(0)
	require.NoError(t, c.Set(ctx, "a", "1"))
	require.NoError(t, c.Set(ctx, "b", "2"))

	require.NoError(t, c.Flush(ctx))
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.NotEqual(t, Key("hello", "en", "es"), Key("  hello\n", "en", "es"))
	assert.NotEqual(t, Key("hello", "en", "es"), Key("hello", "en", "fr"))
	assert.NotEqual(t, Key("hello", "en", "es"), Key("hello", "de", "es"))
	assert.Contains(t, Key("hello", "en", "es"), ":en:es")
}
