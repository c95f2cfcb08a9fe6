package get_available_slots

import (
	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CourseEngine/internal/usecase/get_available_slots"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	SubgroupID     int64  `json:"subgroupId"`
	Date           string `json:"date"`
	AvailableSlots int    `json:"availableSlots"`
	Unlimited      bool   `json:"unlimited"`
	Requested      int    `json:"requested"`
	IsPast         bool   `json:"isPast"`
	IsAvailable    bool   `json:"isAvailable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		SubgroupID:     resp.SubgroupID,
		Date:           resp.Date.Format(domain.DateFormat),
		AvailableSlots: resp.AvailableSlots,
		Unlimited:      resp.Unlimited,
		Requested:      resp.Requested,
		IsPast:         resp.IsPast,
		IsAvailable:    resp.IsAvailable,
	}
}
