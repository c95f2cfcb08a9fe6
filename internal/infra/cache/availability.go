package cache

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// KeyValue хранилище, поверх которого работает кэш доступности
type KeyValue interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
}

// AvailabilityCache кэш свободных мест по (подгруппа, дата)
type AvailabilityCache struct {
	store KeyValue
	ttl   time.Duration
}

// NewAvailabilityCache создает кэш доступности. Неположительный ttl заменяется значением по умолчанию
func NewAvailabilityCache(store KeyValue, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = domain.DefaultAvailabilityTTL
	}
	return &AvailabilityCache{store: store, ttl: ttl}
}

// AvailabilityKey формирует ключ кэша: availability:subgroup:{id}:date:{YYYY-MM-DD}
func AvailabilityKey(subgroupID int64, date time.Time) string {
	return fmt.Sprintf("availability:subgroup:%d:date:%s", subgroupID, date.Format(domain.DateFormat))
}

// Get возвращает закэшированные свободные места
func (c *AvailabilityCache) Get(subgroupID int64, date time.Time) (domain.AvailableSlots, bool) {
	value, ok := c.store.Get(AvailabilityKey(subgroupID, date))
	if !ok {
		return domain.AvailableSlots{}, false
	}

	slots, ok := value.(domain.AvailableSlots)
	return slots, ok
}

// Put сохраняет свободные места на TTL кэша
func (c *AvailabilityCache) Put(subgroupID int64, date time.Time, slots domain.AvailableSlots) {
	c.store.Set(AvailabilityKey(subgroupID, date), slots, c.ttl)
}

// Invalidate удаляет запись для (подгруппа, дата)
func (c *AvailabilityCache) Invalidate(subgroupID int64, date time.Time) {
	c.store.Delete(AvailabilityKey(subgroupID, date))
}
