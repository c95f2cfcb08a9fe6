package validate_cart

import (
	"context"

	"github.com/m04kA/SMC-CourseEngine/internal/service/availability"
)

type AvailabilityService interface {
	ValidateCartAvailability(ctx context.Context, items []availability.CartItem) (*availability.CartResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
