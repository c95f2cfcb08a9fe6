package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryStore потокобезопасное key-value хранилище с TTL в памяти процесса
// Просроченные записи не возвращаются из Get и удаляются в Purge
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]entry
	now   func() time.Time
}

// NewMemoryStore создает пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		store: make(map[string]entry),
		now:   time.Now,
	}
}

// Get возвращает значение, если оно есть и не просрочено
func (c *MemoryStore) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.store[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set сохраняет значение на ttl. Неположительный ttl удаляет ключ
func (c *MemoryStore) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		delete(c.store, key)
		return
	}
	c.store[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

// Delete удаляет ключ
func (c *MemoryStore) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
}

// Purge удаляет просроченные записи и возвращает их количество
func (c *MemoryStore) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.store {
		if !now.Before(e.expiresAt) {
			delete(c.store, key)
			removed++
		}
	}
	return removed
}

// Len возвращает количество записей, включая ещё не удалённые просроченные
func (c *MemoryStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}
