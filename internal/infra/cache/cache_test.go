package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore() (*MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2027, 1, 10, 9, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = clock.Now
	return store, clock
}

func TestMemoryStore_TTL(t *testing.T) {
	store, clock := newTestStore()

	store.Set("a", 1, time.Minute)
	v, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	clock.Advance(time.Minute)
	_, ok = store.Get("a")
	assert.False(t, ok, "entry must expire exactly at ttl")

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, store.Purge())
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_SetNonPositiveTTLDeletes(t *testing.T) {
	store, _ := newTestStore()

	store.Set("a", 1, time.Minute)
	store.Set("a", 2, 0)

	_, ok := store.Get("a")
	assert.False(t, ok)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := AvailabilityKey(int64(i%5), time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
			store.Set(key, i, time.Minute)
			store.Get(key)
			if i%7 == 0 {
				store.Delete(key)
			}
			store.Purge()
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, store.Len(), 5)
}

func TestAvailabilityKey(t *testing.T) {
	date := time.Date(2027, 2, 3, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "availability:subgroup:42:date:2027-02-03", AvailabilityKey(42, date))
}

func TestAvailabilityCache_PutGetInvalidate(t *testing.T) {
	store, clock := newTestStore()
	c := NewAvailabilityCache(store, 30*time.Second)
	date := time.Date(2027, 2, 3, 0, 0, 0, 0, time.UTC)

	_, ok := c.Get(1, date)
	assert.False(t, ok)

	c.Put(1, date, domain.AvailableSlots{Remaining: 4})
	slots, ok := c.Get(1, date)
	require.True(t, ok)
	assert.Equal(t, 4, slots.Count())

	_, ok = c.Get(1, date.AddDate(0, 0, 1))
	assert.False(t, ok, "other date must not share the entry")

	c.Invalidate(1, date)
	_, ok = c.Get(1, date)
	assert.False(t, ok)

	c.Put(1, date, domain.AvailableSlots{Unlimited: true})
	clock.Advance(31 * time.Second)
	_, ok = c.Get(1, date)
	assert.False(t, ok)
}

func TestNewAvailabilityCache_DefaultTTL(t *testing.T) {
	c := NewAvailabilityCache(NewMemoryStore(), 0)
	assert.Equal(t, domain.DefaultAvailabilityTTL, c.ttl)
}

type countingStore struct {
	calls int
}

func (s *countingStore) Purge() int {
	s.calls++
	return 2
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}

func TestNewPurger(t *testing.T) {
	_, err := NewPurger(&countingStore{}, "not a schedule", nopLogger{})
	assert.Error(t, err)

	store := &countingStore{}
	p, err := NewPurger(store, "@every 1m", nopLogger{})
	require.NoError(t, err)

	p.run()
	assert.Equal(t, 1, store.calls)
}
