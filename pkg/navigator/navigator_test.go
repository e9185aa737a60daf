package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndStep(t *testing.T) {
	n := New([]string{"a", "b", "c"})
	assert.False(t, n.IsOpen())
	assert.False(t, n.HasNext())

	assert.False(t, n.Open("zzz"))
	require.True(t, n.Open("b"))
	assert.True(t, n.HasPrev())
	assert.True(t, n.HasNext())

	id, ok := n.Next()
	assert.True(t, ok)
	assert.Equal(t, "c", id)
	assert.False(t, n.HasNext())

	// bounded: next at the end is a no-op
	id, ok = n.Next()
	assert.False(t, ok)
	assert.Equal(t, "c", id)

	n.Prev()
	id, ok = n.Prev()
	assert.True(t, ok)
	assert.Equal(t, "a", id)
	assert.False(t, n.HasPrev())
	_, ok = n.Prev()
	assert.False(t, ok)

	cur, idx, open := n.Current()
	assert.Equal(t, "a", cur)
	assert.Zero(t, idx)
	assert.True(t, open)

	n.Close()
	assert.False(t, n.IsOpen())
	_, ok = n.Next()
	assert.False(t, ok)
}

func TestSyncAfterMorePagesEnablesNext(t *testing.T) {
	n := New([]string{"a", "b"})
	require.True(t, n.Open("b"))
	assert.False(t, n.HasNext())

	assert.True(t, n.Sync([]string{"a", "b", "c", "d"}))
	assert.True(t, n.HasNext())
	id, _ := n.Next()
	assert.Equal(t, "c", id)
}

func TestSyncFollowsOpenPost(t *testing.T) {
	n := New([]string{"a", "b", "c"})
	require.True(t, n.Open("c"))

	assert.True(t, n.Sync([]string{"b", "c"}))
	_, idx, _ := n.Current()
	assert.Equal(t, 1, idx)

	assert.False(t, n.Sync([]string{"b"}))
	assert.False(t, n.IsOpen())
}

func TestInputIsCopied(t *testing.T) {
	ids := []string{"a", "b"}
	n := New(ids)
	ids[0] = "x"
	assert.True(t, n.Open("a"))
	assert.Equal(t, 2, n.Len())
}
