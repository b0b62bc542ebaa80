package memcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Name string `json:"name"`
}

func TestRoundTrip(t *testing.T) {
	c := New()
	ctx := context.Background()

	require.NoError(t, c.SaveLocally(ctx, "users/u1", snapshot{Name: "Mara"}))

	var got snapshot
	ok, err := c.GetLocal(ctx, "users/u1", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Mara", got.Name)
}

func TestMissReadsAsNotFound(t *testing.T) {
	c := New()

	var got snapshot
	ok, err := c.GetLocal(context.Background(), "users/absent", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeFailureReadsAsMiss(t *testing.T) {
	c := New()
	ctx := context.Background()

	// A string entry cannot decode into a struct; callers must not be able
	// to tell this apart from an absent key.
	require.NoError(t, c.SaveLocally(ctx, "users/u1", "not-an-object"))

	var got snapshot
	ok, err := c.GetLocal(ctx, "users/u1", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOverwriteIsLastWriteWins(t *testing.T) {
	c := New()
	ctx := context.Background()

	require.NoError(t, c.SaveLocally(ctx, "users/u1", snapshot{Name: "old"}))
	require.NoError(t, c.SaveLocally(ctx, "users/u1", snapshot{Name: "new"}))

	var got snapshot
	ok, err := c.GetLocal(ctx, "users/u1", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", got.Name)
}

func TestDeleteAndKeys(t *testing.T) {
	c := New()
	ctx := context.Background()

	require.NoError(t, c.SaveLocally(ctx, "pending/1", snapshot{}))
	require.NoError(t, c.SaveLocally(ctx, "pending/2", snapshot{}))
	require.NoError(t, c.SaveLocally(ctx, "users/u1", snapshot{}))

	keys, err := c.Keys(ctx, "pending/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pending/1", "pending/2"}, keys)

	require.NoError(t, c.Delete(ctx, "pending/1"))
	require.NoError(t, c.Delete(ctx, "pending/1"), "double delete is not an error")

	keys, err = c.Keys(ctx, "pending/")
	require.NoError(t, err)
	assert.Equal(t, []string{"pending/2"}, keys)
}
