package get_booking_total

import (
	"context"

	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
)

type TotalsService interface {
	CalculateBookingTotal(ctx context.Context, bookingID int64) (*pricing.BookingBreakdown, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
