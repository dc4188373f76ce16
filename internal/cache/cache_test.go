package cache_test

import (
	"testing"
	"time"

	"storefront/internal/cache"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New(0)

	c.Set(cache.Key("orders", "user-1"), "listing")
	v, ok := c.Get("orders:user-1")
	assert.True(t, ok)
	assert.Equal(t, "listing", v)

	_, ok = c.Get("orders:user-2")
	assert.False(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := cache.New(10 * time.Millisecond)

	c.Set("catalog:all", "data")
	_, ok := c.Get("catalog:all")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("catalog:all")
	assert.False(t, ok)
}

func TestCache_InvalidatePrefix(t *testing.T) {
	c := cache.New(0)

	c.Set(cache.Key("orders", "user-1"), "a")
	c.Set(cache.Key("orders", "user-1", "order-x"), "b")
	c.Set(cache.Key("product", "widget"), "c")

	c.Invalidate("orders:user-1")

	_, ok := c.Get("orders:user-1")
	assert.False(t, ok)
	_, ok = c.Get("orders:user-1:order-x")
	assert.False(t, ok)

	// Other prefixes are untouched.
	v, ok := c.Get("product:widget")
	assert.True(t, ok)
	assert.Equal(t, "c", v)
}
