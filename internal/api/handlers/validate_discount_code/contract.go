package validate_discount_code

import (
	"context"

	"github.com/m04kA/SMC-CourseEngine/internal/service/discount"
)

type DiscountService interface {
	Validate(ctx context.Context, req discount.Request) (*discount.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
