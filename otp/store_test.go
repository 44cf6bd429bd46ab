package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedStore() (*MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = clock.Now
	return store, clock
}

func TestMemoryStore_SaveGetConsume(t *testing.T) {
	ctx := context.Background()
	store, clock := newClockedStore()

	require.NoError(t, store.Save(ctx, "+989123456789", "123456", time.Minute))

	entry, err := store.Get(ctx, "+989123456789")
	require.NoError(t, err)
	assert.Equal(t, "123456", entry.Code)
	assert.Equal(t, clock.Now().Add(time.Minute), entry.ExpiresAt)

	assert.ErrorIs(t, store.Consume(ctx, "+989123456789", "000000"), ErrInvalidCode)
	_, err = store.Get(ctx, "+989123456789")
	require.NoError(t, err, "a wrong code must not drop the entry")

	require.NoError(t, store.Consume(ctx, "+989123456789", "123456"))
	assert.ErrorIs(t, store.Consume(ctx, "+989123456789", "123456"), ErrNotFound)
	_, err = store.Get(ctx, "+989123456789")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, clock := newClockedStore()

	require.NoError(t, store.Save(ctx, "+989123456789", "123456", time.Minute))
	clock.Advance(2 * time.Minute)

	_, err := store.Get(ctx, "+989123456789")
	assert.ErrorIs(t, err, ErrExpired)

	_, err = store.Get(ctx, "+989123456789")
	assert.ErrorIs(t, err, ErrExpired, "expired entries stay visible until cleanup")

	assert.Equal(t, 1, store.Cleanup())
	_, err = store.Get(ctx, "+989123456789")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ConsumeExpired(t *testing.T) {
	ctx := context.Background()
	store, clock := newClockedStore()

	require.NoError(t, store.Save(ctx, "+989123456789", "123456", time.Minute))
	clock.Advance(2 * time.Minute)

	assert.ErrorIs(t, store.Consume(ctx, "+989123456789", "123456"), ErrExpired)
	assert.ErrorIs(t, store.Consume(ctx, "+989123456789", "123456"), ErrNotFound)
}

func TestMemoryStore_Cleanup(t *testing.T) {
	ctx := context.Background()
	store, clock := newClockedStore()

	require.NoError(t, store.Save(ctx, "a", "111111", time.Minute))
	require.NoError(t, store.Save(ctx, "b", "222222", time.Hour))
	clock.Advance(10 * time.Minute)

	assert.Equal(t, 1, store.Cleanup())
	_, err := store.Get(ctx, "b")
	assert.NoError(t, err)
}
