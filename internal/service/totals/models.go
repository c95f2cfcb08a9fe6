package totals

import "github.com/m04kA/SMC-CourseEngine/internal/service/pricing"

// ReconciliationStatus результат сверки оплат с расчётной суммой
type ReconciliationStatus string

const (
	StatusConsistent ReconciliationStatus = "consistent"
	StatusUnderpaid  ReconciliationStatus = "underpaid"
	StatusOverpaid   ReconciliationStatus = "overpaid"
)

// Reconciliation сверка бронирования. Несоответствие - это данные, а не ошибка
type Reconciliation struct {
	BookingID int64
	Currency  string
	Breakdown pricing.BookingBreakdown

	CalculatedTotal    float64
	StoredTotal        float64 // price_total, сохранённый в бронировании
	StoredTotalMatches bool

	TotalPaidPayments float64 // платежи со статусом paid
	TotalVouchers     float64 // оплата ваучерами
	TotalRefunded     float64 // возвраты (для информации, в сверку не входят)
	TotalPaid         float64

	NetBalance      float64 // TotalPaid - CalculatedTotal
	MainDiscrepancy float64 // со знаком: < 0 недоплата, > 0 переплата
	Epsilon         float64
	IsConsistent    bool
	Status          ReconciliationStatus
}
