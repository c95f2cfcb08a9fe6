package get_financial_reality

import (
	"github.com/m04kA/SMC-CourseEngine/internal/api/handlers"
	"github.com/m04kA/SMC-CourseEngine/internal/service/totals"
)

// FinancialRealityResponse HTTP response model
type FinancialRealityResponse struct {
	BookingID int64                      `json:"bookingId"`
	Currency  string                     `json:"currency"`
	Breakdown handlers.BreakdownResponse `json:"breakdown"`

	CalculatedTotal    float64 `json:"calculatedTotal"`
	StoredTotal        float64 `json:"storedTotal"`
	StoredTotalMatches bool    `json:"storedTotalMatches"`

	TotalPaidPayments float64 `json:"totalPaidPayments"`
	TotalVouchers     float64 `json:"totalVouchers"`
	TotalRefunded     float64 `json:"totalRefunded"`
	TotalPaid         float64 `json:"totalPaid"`

	NetBalance      float64 `json:"netBalance"`
	MainDiscrepancy float64 `json:"mainDiscrepancy"`
	IsConsistent    bool    `json:"isConsistent"`
	Status          string  `json:"status"`
}

// FromReconciliation конвертирует сверку в HTTP response
func FromReconciliation(rec *totals.Reconciliation) *FinancialRealityResponse {
	return &FinancialRealityResponse{
		BookingID:          rec.BookingID,
		Currency:           rec.Currency,
		Breakdown:          handlers.FromBreakdown(&rec.Breakdown),
		CalculatedTotal:    rec.CalculatedTotal,
		StoredTotal:        rec.StoredTotal,
		StoredTotalMatches: rec.StoredTotalMatches,
		TotalPaidPayments:  rec.TotalPaidPayments,
		TotalVouchers:      rec.TotalVouchers,
		TotalRefunded:      rec.TotalRefunded,
		TotalPaid:          rec.TotalPaid,
		NetBalance:         rec.NetBalance,
		MainDiscrepancy:    rec.MainDiscrepancy,
		IsConsistent:       rec.IsConsistent,
		Status:             string(rec.Status),
	}
}
