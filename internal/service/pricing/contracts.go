package pricing

import (
	"context"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// CourseRepository интерфейс репозитория курсов
type CourseRepository interface {
	GetCourse(ctx context.Context, id int64) (*domain.Course, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetBookingUser(ctx context.Context, id int64) (*domain.BookingUser, error)
	GetBookingUsers(ctx context.Context, bookingID int64) ([]*domain.BookingUser, error)
	GetExtrasByBookingUsers(ctx context.Context, bookingUserIDs []int64) (map[int64][]domain.BookingUserExtra, error)
}

// SchoolRepository интерфейс репозитория настроек школ
type SchoolRepository interface {
	GetSettings(ctx context.Context, schoolID int64) (*domain.SchoolSettings, error)
}

// Metrics счётчик пробелов в тарифной сетке
type Metrics interface {
	PricingConfigGap()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
