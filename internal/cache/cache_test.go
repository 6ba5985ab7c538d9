package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	val := []byte("v1")
	c.Set(ctx, "k", val, 0)
	val[0] = 'x'

	got, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), got)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &memory{items: make(map[string]entry), now: func() time.Time { return now }}

	m.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := m.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Empty(t, m.items)
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	c.Set(context.Background(), "k", []byte("v"), time.Minute)
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
