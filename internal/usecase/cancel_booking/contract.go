package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetBookingUsers(ctx context.Context, bookingID int64) ([]*domain.BookingUser, error)
	CancelBookingUsers(ctx context.Context, bookingID int64, ids []int64) ([]*domain.BookingUser, error)
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason *string) error
}

// AvailabilityCache сброс кэша доступности после коммита
type AvailabilityCache interface {
	InvalidateCache(subgroupID int64, date time.Time)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
