package validate_discount_code

import "github.com/m04kA/SMC-CourseEngine/internal/service/discount"

// ValidateRequest HTTP request model
type ValidateRequest struct {
	Code         string  `json:"code" validate:"required,max=64"`
	SchoolID     int64   `json:"schoolId" validate:"required,gt=0"`
	ClientID     int64   `json:"clientId" validate:"required,gt=0"`
	CourseIDs    []int64 `json:"courseIds,omitempty" validate:"omitempty,dive,gt=0"`
	SportIDs     []int64 `json:"sportIds,omitempty" validate:"omitempty,dive,gt=0"`
	DegreeIDs    []int64 `json:"degreeIds,omitempty" validate:"omitempty,dive,gt=0"`
	Amount       float64 `json:"amount" validate:"gte=0"`
	HasReduction bool    `json:"hasReduction"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос сервиса промокодов
func (r *ValidateRequest) ToServiceRequest() discount.Request {
	return discount.Request{
		Code:         r.Code,
		SchoolID:     r.SchoolID,
		ClientID:     r.ClientID,
		CourseIDs:    r.CourseIDs,
		SportIDs:     r.SportIDs,
		DegreeIDs:    r.DegreeIDs,
		Amount:       r.Amount,
		HasReduction: r.HasReduction,
	}
}

// ValidateResponse HTTP response model. Отклонённый промокод - это ответ 200 с причиной
type ValidateResponse struct {
	Valid          bool    `json:"valid"`
	Code           string  `json:"code"`
	DiscountCodeID int64   `json:"discountCodeId,omitempty"`
	Amount         float64 `json:"amount"`
	Reason         string  `json:"reason,omitempty"`
}

// FromResult конвертирует результат проверки в HTTP response
func FromResult(result *discount.Result) *ValidateResponse {
	return &ValidateResponse{
		Valid:          result.Valid,
		Code:           result.Code,
		DiscountCodeID: result.DiscountCodeID,
		Amount:         result.Amount,
		Reason:         string(result.Reason),
	}
}
