package editor

import (
	"testing"

	"github.com/loganlanou/phishdesk/internal/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheDiscardsSupersededFetch(t *testing.T) {
	c := NewCache()

	slow := c.Begin()
	fast := c.Begin()
	assert.True(t, c.Loading())

	require.True(t, c.Replace(fast, []templates.Template{{ID: 2, Name: "fresh"}}))
	assert.True(t, c.Loading(), "the slow fetch is still outstanding")

	assert.False(t, c.Replace(slow, []templates.Template{{ID: 1, Name: "stale"}}))
	assert.False(t, c.Loading())

	list := c.List()
	require.Len(t, list, 1)
	assert.Equal(t, "fresh", list[0].Name)

	_, ok := c.Get(1)
	assert.False(t, ok)
}

func TestCacheGetByID(t *testing.T) {
	c := NewCache()
	c.Replace(c.Begin(), []templates.Template{{ID: 7, Name: "a"}, {ID: 3, Name: "b"}})

	got, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, "b", got.Name)

	// Reordering the list does not change what an id resolves to
	c.Replace(c.Begin(), []templates.Template{{ID: 3, Name: "b"}, {ID: 7, Name: "a"}})
	got, ok = c.Get(7)
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
}

func TestCacheListIsACopy(t *testing.T) {
	c := NewCache()
	c.Replace(c.Begin(), []templates.Template{{ID: 1, Name: "a"}})

	list := c.List()
	list[0].Name = "changed"

	got, _ := c.Get(1)
	assert.Equal(t, "a", got.Name)
}

func TestCacheAbandon(t *testing.T) {
	c := NewCache()
	c.Begin()
	c.Abandon()
	assert.False(t, c.Loading())

	c.Abandon()
	assert.False(t, c.Loading())
}
