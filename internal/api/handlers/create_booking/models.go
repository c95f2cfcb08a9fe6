package create_booking

import (
	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	createBooking "github.com/m04kA/SMC-CourseEngine/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CourseEngine/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SchoolID                 int64         `json:"schoolId" validate:"required,gt=0"`
	ClientMainID             int64         `json:"clientMainId" validate:"required,gt=0"`
	Currency                 string        `json:"currency,omitempty" validate:"omitempty,len=3"`
	HasCancellationInsurance bool          `json:"hasCancellationInsurance"`
	PriceReduction           float64       `json:"priceReduction" validate:"gte=0"`
	DiscountCode             *string       `json:"discountCode,omitempty" validate:"omitempty,max=64"`
	Notes                    *string       `json:"notes,omitempty"`
	Lines                    []LineRequest `json:"lines" validate:"required,min=1,max=200,dive"`
}

type LineRequest struct {
	ClientID         int64   `json:"clientId" validate:"required,gt=0"`
	CourseID         int64   `json:"courseId" validate:"required,gt=0"`
	CourseDateID     int64   `json:"courseDateId" validate:"required,gt=0"`
	CourseSubgroupID *int64  `json:"courseSubgroupId,omitempty" validate:"omitempty,gt=0"`
	MonitorID        *int64  `json:"monitorId,omitempty" validate:"omitempty,gt=0"`
	GroupID          int64   `json:"groupId" validate:"gte=0"`
	HourStart        *string `json:"hourStart,omitempty"`
	HourEnd          *string `json:"hourEnd,omitempty"`
	ExtraIDs         []int64 `json:"extraIds,omitempty" validate:"omitempty,dive,gt=0"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case (с парсингом времени)
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	lines := make([]createBooking.LineRequest, 0, len(r.Lines))
	for _, l := range r.Lines {
		hourStart, err := parseTime(l.HourStart)
		if err != nil {
			return nil, err
		}
		hourEnd, err := parseTime(l.HourEnd)
		if err != nil {
			return nil, err
		}

		lines = append(lines, createBooking.LineRequest{
			ClientID:         l.ClientID,
			CourseID:         l.CourseID,
			CourseDateID:     l.CourseDateID,
			CourseSubgroupID: l.CourseSubgroupID,
			MonitorID:        l.MonitorID,
			GroupID:          l.GroupID,
			HourStart:        hourStart,
			HourEnd:          hourEnd,
			ExtraIDs:         l.ExtraIDs,
		})
	}

	return &createBooking.Request{
		SchoolID:                 r.SchoolID,
		ClientMainID:             r.ClientMainID,
		Currency:                 r.Currency,
		HasCancellationInsurance: r.HasCancellationInsurance,
		PriceReduction:           r.PriceReduction,
		DiscountCode:             r.DiscountCode,
		Notes:                    r.Notes,
		Lines:                    lines,
	}, nil
}

func parseTime(raw *string) (*types.TimeString, error) {
	if raw == nil {
		return nil, nil
	}
	ts, err := types.NewTimeStringFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID       int64  `json:"id"`
	SchoolID int64  `json:"schoolId"`
	Status   int    `json:"status"`
	Currency string `json:"currency"`

	PriceTotal                 float64 `json:"priceTotal"`
	HasCancellationInsurance   bool    `json:"hasCancellationInsurance"`
	PriceCancellationInsurance float64 `json:"priceCancellationInsurance"`
	PriceReduction             float64 `json:"priceReduction"`
	DiscountCodeID             *int64  `json:"discountCodeId,omitempty"`
	DiscountCodeValue          float64 `json:"discountCodeValue"`

	Lines []LineResponse `json:"lines"`
}

type LineResponse struct {
	ID               int64   `json:"id"`
	ClientID         int64   `json:"clientId"`
	CourseID         int64   `json:"courseId"`
	CourseSubgroupID *int64  `json:"courseSubgroupId,omitempty"`
	Date             string  `json:"date"`
	HourStart        string  `json:"hourStart"`
	HourEnd          string  `json:"hourEnd"`
	Price            float64 `json:"price"`
}

// CapacityDetails подробности отказа по вместимости
type CapacityDetails struct {
	SubgroupID int64  `json:"subgroupId"`
	Date       string `json:"date"`
	GroupID    int64  `json:"groupId,omitempty"`
	DegreeID   int64  `json:"degreeId,omitempty"`
	Max        int    `json:"max"`
	Occupied   int    `json:"occupied"`
	Requested  int    `json:"requested"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	b := resp.Booking
	lines := make([]LineResponse, 0, len(resp.Lines))
	for _, l := range resp.Lines {
		lines = append(lines, LineResponse{
			ID:               l.ID,
			ClientID:         l.ClientID,
			CourseID:         l.CourseID,
			CourseSubgroupID: l.CourseSubgroupID,
			Date:             l.Date.Format(domain.DateFormat),
			HourStart:        l.HourStart.String(),
			HourEnd:          l.HourEnd.String(),
			Price:            l.Price,
		})
	}

	return &BookingResponse{
		ID:                         b.ID,
		SchoolID:                   b.SchoolID,
		Status:                     int(b.Status),
		Currency:                   b.Currency,
		PriceTotal:                 b.PriceTotal,
		HasCancellationInsurance:   b.HasCancellationInsurance,
		PriceCancellationInsurance: b.PriceCancellationInsurance,
		PriceReduction:             b.PriceReduction,
		DiscountCodeID:             b.DiscountCodeID,
		DiscountCodeValue:          b.DiscountCodeValue,
		Lines:                      lines,
	}
}

func fromCapacityError(e *createBooking.CapacityExceededError) CapacityDetails {
	return CapacityDetails{
		SubgroupID: e.SubgroupID,
		Date:       e.Date.Format(domain.DateFormat),
		GroupID:    e.GroupID,
		DegreeID:   e.DegreeID,
		Max:        e.Max,
		Occupied:   e.Occupied,
		Requested:  e.Requested,
	}
}
