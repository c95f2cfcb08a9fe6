package handlers

import "github.com/m04kA/SMC-CourseEngine/internal/service/pricing"

// BreakdownResponse итоги бронирования, общие для ответов о стоимости
type BreakdownResponse struct {
	BookingID      int64              `json:"bookingId"`
	Currency       string             `json:"currency"`
	ActiveLines    int                `json:"activeLines"`
	CancelledLines int                `json:"cancelledLines"`
	Lines          []BreakdownLineDTO `json:"lines"`

	PriceWithoutExtras         float64 `json:"priceWithoutExtras"`
	ExtrasPrice                float64 `json:"extrasPrice"`
	CancellationInsurancePrice float64 `json:"cancellationInsurancePrice"`
	Subtotal                   float64 `json:"subtotal"`
	PriceReduction             float64 `json:"priceReduction"`
	DiscountCodeValue          float64 `json:"discountCodeValue"`
	TotalFinal                 float64 `json:"totalFinal"`
	ConfigurationGaps          int     `json:"configurationGaps"`
}

type BreakdownLineDTO struct {
	BookingUserID  int64   `json:"bookingUserId"`
	ClientID       int64   `json:"clientId"`
	CourseID       int64   `json:"courseId"`
	CoveredLineIDs []int64 `json:"coveredLineIds"`
	TotalPrice     float64 `json:"totalPrice"`
}

// FromBreakdown конвертирует итоги сервиса в HTTP модель
func FromBreakdown(b *pricing.BookingBreakdown) BreakdownResponse {
	lines := make([]BreakdownLineDTO, 0, len(b.Lines))
	for _, l := range b.Lines {
		lines = append(lines, BreakdownLineDTO{
			BookingUserID:  l.BookingUserID,
			ClientID:       l.ClientID,
			CourseID:       l.CourseID,
			CoveredLineIDs: l.CoveredLineIDs,
			TotalPrice:     l.TotalPrice,
		})
	}

	return BreakdownResponse{
		BookingID:                  b.BookingID,
		Currency:                   b.Currency,
		ActiveLines:                b.ActiveLines,
		CancelledLines:             b.CancelledLines,
		Lines:                      lines,
		PriceWithoutExtras:         b.PriceWithoutExtras,
		ExtrasPrice:                b.ExtrasPrice,
		CancellationInsurancePrice: b.CancellationInsurancePrice,
		Subtotal:                   b.Subtotal,
		PriceReduction:             b.PriceReduction,
		DiscountCodeValue:          b.DiscountCodeValue,
		TotalFinal:                 b.TotalFinal,
		ConfigurationGaps:          b.ConfigurationGaps,
	}
}
