package totals

import (
	"context"
	"fmt"
	"math"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
)

// Service итоги бронирования и сверка с фактическими оплатами
type Service struct {
	loader      BookingLoader
	calculator  Calculator
	paymentRepo PaymentRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса итогов
func NewService(loader BookingLoader, calculator Calculator, paymentRepo PaymentRepository, logger Logger) *Service {
	return &Service{
		loader:      loader,
		calculator:  calculator,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// CalculateBookingTotal считает итог бронирования по активным строкам:
// цены строк + доп. услуги + страховка по ставке школы - ручная скидка - скидка по промокоду.
// Ваучеры итог не уменьшают.
func (s *Service) CalculateBookingTotal(ctx context.Context, bookingID int64) (*pricing.BookingBreakdown, error) {
	in, err := s.loader.LoadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	breakdown := s.calculator.PriceBooking(*in)
	s.logger.Info("CalculateBookingTotal: booking=%d lines=%d cancelled=%d total=%.2f %s",
		bookingID, breakdown.ActiveLines, breakdown.CancelledLines, breakdown.TotalFinal, breakdown.Currency)

	if breakdown.ConfigurationGaps > 0 {
		s.logger.Warn("CalculateBookingTotal: booking=%d has %d lines without configured price",
			bookingID, breakdown.ConfigurationGaps)
	}

	return &breakdown, nil
}

// AnalyzeFinancialReality сверяет расчётную сумму с оплатами и ваучерами
func (s *Service) AnalyzeFinancialReality(ctx context.Context, bookingID int64) (*Reconciliation, error) {
	in, err := s.loader.LoadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetPayments(ctx, bookingID)
	if err != nil {
		s.logger.Error("AnalyzeFinancialReality: failed to get payments of booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: AnalyzeFinancialReality - get payments: %w", ErrInternal, err)
	}

	vouchers, err := s.paymentRepo.GetVoucherLogs(ctx, bookingID)
	if err != nil {
		s.logger.Error("AnalyzeFinancialReality: failed to get vouchers of booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: AnalyzeFinancialReality - get vouchers: %w", ErrInternal, err)
	}

	breakdown := s.calculator.PriceBooking(*in)
	report := Reconcile(in.Booking, breakdown, payments, vouchers)

	if report.IsConsistent {
		s.logger.Info("AnalyzeFinancialReality: booking=%d is consistent, total=%.2f", bookingID, report.CalculatedTotal)
	} else {
		s.logger.Warn("AnalyzeFinancialReality: booking=%d is %s: calculated=%.2f paid=%.2f discrepancy=%.2f",
			bookingID, report.Status, report.CalculatedTotal, report.TotalPaid, report.MainDiscrepancy)
	}

	return report, nil
}

// Reconcile строит сверку по уже посчитанным итогам
func Reconcile(
	booking *domain.Booking,
	breakdown pricing.BookingBreakdown,
	payments []domain.Payment,
	vouchers []domain.VoucherLog,
) *Reconciliation {
	report := &Reconciliation{
		BookingID:       booking.ID,
		Currency:        breakdown.Currency,
		Breakdown:       breakdown,
		CalculatedTotal: breakdown.TotalFinal,
		StoredTotal:     booking.PriceTotal,
		Epsilon:         domain.ReconciliationEpsilon(breakdown.Currency),
	}

	for _, p := range payments {
		switch p.Status {
		case domain.PaymentStatusPaid:
			report.TotalPaidPayments += p.Amount
		case domain.PaymentStatusRefund, domain.PaymentStatusPartialRefund:
			report.TotalRefunded += p.Amount
		}
	}
	for _, v := range vouchers {
		report.TotalVouchers += v.Amount
	}

	report.TotalPaidPayments = round(report.TotalPaidPayments)
	report.TotalVouchers = round(report.TotalVouchers)
	report.TotalRefunded = round(report.TotalRefunded)
	report.TotalPaid = round(report.TotalPaidPayments + report.TotalVouchers)

	report.NetBalance = round(report.TotalPaid - report.CalculatedTotal)
	report.MainDiscrepancy = report.NetBalance
	report.IsConsistent = math.Abs(report.NetBalance) < report.Epsilon
	report.StoredTotalMatches = math.Abs(report.StoredTotal-report.CalculatedTotal) < report.Epsilon

	switch {
	case report.IsConsistent:
		report.Status = StatusConsistent
	case report.NetBalance < 0:
		report.Status = StatusUnderpaid
	default:
		report.Status = StatusOverpaid
	}

	return report
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
