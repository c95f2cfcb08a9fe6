package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/internal/service/capacity"
	"github.com/m04kA/SMC-CourseEngine/internal/service/discount"
	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
)

// CourseRepository интерфейс репозитория курсов
type CourseRepository interface {
	GetCourse(ctx context.Context, id int64) (*domain.Course, error)
	GetCourseDate(ctx context.Context, id int64) (*domain.CourseDate, error)
	GetSubgroup(ctx context.Context, id int64) (*domain.CourseSubgroup, error)
	GetExtras(ctx context.Context, courseID int64, ids []int64) ([]domain.CourseExtra, error)
	LockSubgroups(ctx context.Context, ids []int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CreateBookingUser(ctx context.Context, line *domain.BookingUser) (*domain.BookingUser, error)
	CreateBookingUserExtra(ctx context.Context, extra *domain.BookingUserExtra) error
	UpdateBookingUserPrice(ctx context.Context, id int64, price float64) error
	UpdateTotals(ctx context.Context, booking *domain.Booking) error
}

// CapacityResolver вычисляет вместимость подгруппы (та же логика, что и у проверки доступности)
type CapacityResolver interface {
	ResolveMaxParticipants(ctx context.Context, subgroupID int64, date time.Time) (capacity.Resolution, error)
}

// OccupancyCounter считает занятые места подгруппы
type OccupancyCounter interface {
	CountActive(ctx context.Context, subgroupID int64, date time.Time) (int, error)
}

// PriceCalculator считает итоги бронирования по загруженным данным
type PriceCalculator interface {
	PriceBooking(in pricing.BookingInput) pricing.BookingBreakdown
}

// InsuranceRateProvider ставка страховки отмены школы
type InsuranceRateProvider interface {
	InsuranceRate(ctx context.Context, schoolID int64) (float64, error)
}

// DiscountService проверка и погашение промокодов
type DiscountService interface {
	Validate(ctx context.Context, req discount.Request) (*discount.Result, error)
	Redeem(ctx context.Context, result *discount.Result, bookingID, clientID int64) error
}

// AvailabilityCache сброс кэша доступности после коммита
type AvailabilityCache interface {
	InvalidateCache(subgroupID int64, date time.Time)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчик отказов по вместимости
type Metrics interface {
	CapacityRejected()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
