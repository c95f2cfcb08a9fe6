package discount

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// DiscountRepository интерфейс репозитория промокодов
type DiscountRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	CountClientUsages(ctx context.Context, discountCodeID, clientID int64) (int, error)
	RegisterUsage(ctx context.Context, discountCodeID, bookingID, clientID int64, amount float64) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
