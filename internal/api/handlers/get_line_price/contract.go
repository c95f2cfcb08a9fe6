package get_line_price

import (
	"context"

	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
)

type PricingService interface {
	CalculateLinePrice(ctx context.Context, bookingUserID int64) (*pricing.LinePrice, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
