package discount

// Reason причина отказа в применении промокода
type Reason string

const (
	ReasonNotFound          Reason = "not_found"
	ReasonInactive          Reason = "inactive"
	ReasonNotStarted        Reason = "not_started"
	ReasonExpired           Reason = "expired"
	ReasonExhausted         Reason = "usage_limit_reached"
	ReasonClientLimit       Reason = "client_usage_limit_reached"
	ReasonWrongSchool       Reason = "school_not_allowed"
	ReasonCourseNotAllowed  Reason = "course_not_allowed"
	ReasonSportNotAllowed   Reason = "sport_not_allowed"
	ReasonClientNotAllowed  Reason = "client_not_allowed"
	ReasonDegreeNotAllowed  Reason = "degree_not_allowed"
	ReasonMinPurchase       Reason = "min_purchase_not_met"
	ReasonNotStackable      Reason = "not_stackable_with_reduction"
	ReasonNothingToDiscount Reason = "nothing_to_discount"
)

// Request данные корзины, к которой применяется промокод
type Request struct {
	Code      string
	SchoolID  int64
	ClientID  int64
	CourseIDs []int64
	SportIDs  []int64
	DegreeIDs []int64
	Amount    float64 // сумма корзины до применения промокода
	// HasReduction в корзине уже есть ручная скидка
	HasReduction bool
}

// Result результат проверки промокода. Отказ - это данные, а не ошибка
type Result struct {
	Valid          bool
	DiscountCodeID int64
	Code           string
	Amount         float64 // итоговая скидка в деньгах
	Reason         Reason
}
