package get_line_price

import "github.com/m04kA/SMC-CourseEngine/internal/service/pricing"

// LinePriceResponse HTTP response model
type LinePriceResponse struct {
	BookingUserID  int64   `json:"bookingUserId"`
	ClientID       int64   `json:"clientId"`
	CourseID       int64   `json:"courseId"`
	CourseType     int     `json:"courseType"`
	IsFlexible     bool    `json:"isFlexible"`
	CoveredLineIDs []int64 `json:"coveredLineIds"`

	Dates              int     `json:"dates,omitempty"`
	DiscountPercentage float64 `json:"discountPercentage,omitempty"`
	Duration           string  `json:"duration,omitempty"`
	GroupSize          int     `json:"groupSize,omitempty"`
	ConfigurationGap   bool    `json:"configurationGap"`
	Cancelled          bool    `json:"cancelled"`

	PriceWithoutExtras         float64 `json:"priceWithoutExtras"`
	ExtrasPrice                float64 `json:"extrasPrice"`
	CancellationInsurancePrice float64 `json:"cancellationInsurancePrice"`
	TotalPrice                 float64 `json:"totalPrice"`
	Currency                   string  `json:"currency"`
}

// FromLinePrice конвертирует цену строки в HTTP response
func FromLinePrice(p *pricing.LinePrice) *LinePriceResponse {
	return &LinePriceResponse{
		BookingUserID:              p.BookingUserID,
		ClientID:                   p.ClientID,
		CourseID:                   p.CourseID,
		CourseType:                 int(p.CourseType),
		IsFlexible:                 p.IsFlexible,
		CoveredLineIDs:             p.CoveredLineIDs,
		Dates:                      p.Dates,
		DiscountPercentage:         p.DiscountPercentage,
		Duration:                   p.Duration,
		GroupSize:                  p.GroupSize,
		ConfigurationGap:           p.ConfigurationGap,
		Cancelled:                  p.Cancelled,
		PriceWithoutExtras:         p.PriceWithoutExtras,
		ExtrasPrice:                p.ExtrasPrice,
		CancellationInsurancePrice: p.CancellationInsurancePrice,
		TotalPrice:                 p.TotalPrice,
		Currency:                   p.Currency,
	}
}
