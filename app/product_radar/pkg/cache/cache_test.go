package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryRoundTrip(t *testing.T) {
	c := NewMemory(time.Hour)
	products := []model.Product{{Name: "Notion", Topics: []string{"productivity"}}}
	c.Put("k", products)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, products, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemory(3_600_000*time.Millisecond, WithClock(clock.Now))
	c.Put("k", []model.Product{{Name: "A"}})

	clock.Advance(time.Hour - time.Millisecond)
	_, ok := c.Get("k")
	assert.True(t, ok)

	clock.Advance(time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry must not be served at ttl")

	// 过期后重新写入覆盖旧条目
	c.Put("k", []model.Product{{Name: "B"}})
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryEmptyResultIsCached(t *testing.T) {
	c := NewMemory(0)
	c.Put("k", nil)
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestMemoryReturnsCopy(t *testing.T) {
	c := NewMemory(time.Hour)
	c.Put("k", []model.Product{{Name: "A"}})

	got, _ := c.Get("k")
	got[0].Name = "mutated"

	again, _ := c.Get("k")
	assert.Equal(t, "A", again[0].Name)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	c := NewMemory(time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Put("k", []model.Product{{Name: "A"}})
			c.Get("k")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}
