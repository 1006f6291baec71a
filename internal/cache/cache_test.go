package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, time.Minute)
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	t.Run("miss on unknown key", func(t *testing.T) {
		_, ok := c.Get("missing")
		assert.False(t, ok)
	})

	t.Run("delete evicts", func(t *testing.T) {
		c.Set("b", 2, time.Minute)
		c.Delete("b")
		_, ok := c.Get("b")
		assert.False(t, ok)
	})

	t.Run("expired entry drops on read", func(t *testing.T) {
		c.Set("c", 3, time.Nanosecond)
		time.Sleep(5 * time.Millisecond)
		_, ok := c.Get("c")
		assert.False(t, ok)
	})

	t.Run("non-positive ttl stores nothing", func(t *testing.T) {
		c.Set("d", 4, 0)
		_, ok := c.Get("d")
		assert.False(t, ok)
	})

	t.Run("set overwrites", func(t *testing.T) {
		c.Set("a", 9, time.Minute)
		got, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 9, got)
	})
}
