package totals

import (
	"context"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
)

// BookingLoader загружает бронирование со всем, что нужно для расчёта
type BookingLoader interface {
	LoadBooking(ctx context.Context, bookingID int64) (*pricing.BookingInput, error)
}

// Calculator считает итоги по загруженным данным
type Calculator interface {
	PriceBooking(in pricing.BookingInput) pricing.BookingBreakdown
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error)
	GetVoucherLogs(ctx context.Context, bookingID int64) ([]domain.VoucherLog, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
