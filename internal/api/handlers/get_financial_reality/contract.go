package get_financial_reality

import (
	"context"

	"github.com/m04kA/SMC-CourseEngine/internal/service/totals"
)

type TotalsService interface {
	AnalyzeFinancialReality(ctx context.Context, bookingID int64) (*totals.Reconciliation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
