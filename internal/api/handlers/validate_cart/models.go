package validate_cart

import (
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/internal/service/availability"
)

// CartRequest тело запроса проверки корзины
type CartRequest struct {
	Items []CartItemRequest `json:"items" validate:"required,min=1,max=200,dive"`
}

type CartItemRequest struct {
	SubgroupID int64  `json:"subgroupId" validate:"required,gt=0"`
	Date       string `json:"date" validate:"required"`
	Count      int    `json:"count" validate:"omitempty,min=1,max=100"`
}

// CartResponse HTTP response model
type CartResponse struct {
	IsAvailable bool               `json:"isAvailable"`
	Details     []CartLineResponse `json:"details"`
}

type CartLineResponse struct {
	SubgroupID int64  `json:"subgroupId"`
	Date       string `json:"date"`
	Requested  int    `json:"requested"`
	Available  bool   `json:"available"`
	Remaining  int    `json:"remaining"`
	Unlimited  bool   `json:"unlimited"`
}

// ToCartItems конвертирует HTTP запрос в строки корзины сервиса
func (r *CartRequest) ToCartItems(parseDate func(string) (time.Time, error)) ([]availability.CartItem, error) {
	items := make([]availability.CartItem, 0, len(r.Items))
	for _, item := range r.Items {
		date, err := parseDate(item.Date)
		if err != nil {
			return nil, err
		}
		items = append(items, availability.CartItem{
			SubgroupID: item.SubgroupID,
			Date:       date,
			Count:      item.Count,
		})
	}
	return items, nil
}

// FromCartResult конвертирует результат сервиса в HTTP response
func FromCartResult(result *availability.CartResult) *CartResponse {
	details := make([]CartLineResponse, 0, len(result.Details))
	for _, line := range result.Details {
		details = append(details, CartLineResponse{
			SubgroupID: line.SubgroupID,
			Date:       line.Date.Format(domain.DateFormat),
			Requested:  line.Requested,
			Available:  line.Available,
			Remaining:  line.Remaining,
			Unlimited:  line.Unlimited,
		})
	}
	return &CartResponse{
		IsAvailable: result.IsAvailable,
		Details:     details,
	}
}
