package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/internal/service/capacity"
)

// CapacityResolver вычисляет вместимость подгруппы на дату
type CapacityResolver interface {
	ResolveMaxParticipants(ctx context.Context, subgroupID int64, date time.Time) (capacity.Resolution, error)
}

// OccupancyCounter считает занятые места подгруппы на дату
type OccupancyCounter interface {
	CountActive(ctx context.Context, subgroupID int64, date time.Time) (int, error)
}

// Cache кэш свободных мест по (подгруппа, дата)
type Cache interface {
	Get(subgroupID int64, date time.Time) (domain.AvailableSlots, bool)
	Put(subgroupID int64, date time.Time, slots domain.AvailableSlots)
	Invalidate(subgroupID int64, date time.Time)
}

// Metrics счётчики попаданий в кэш
type Metrics interface {
	CacheHit()
	CacheMiss()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
