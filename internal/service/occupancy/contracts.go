package occupancy

import (
	"context"
	"time"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountActiveBySubgroupAndDate(ctx context.Context, subgroupID int64, date time.Time) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}
