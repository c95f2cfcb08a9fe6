package create_booking

import (
	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/internal/service/discount"
	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
	"github.com/m04kA/SMC-CourseEngine/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	SchoolID                 int64   // ID школы
	ClientMainID             int64   // ID клиента, оформляющего покупку
	Currency                 string  // Валюта (пусто = валюта по умолчанию)
	HasCancellationInsurance bool    // Страховка отмены
	PriceReduction           float64 // Ручная скидка
	DiscountCode             *string // Промокод (опционально)
	Notes                    *string // Дополнительные заметки (опционально)
	Lines                    []LineRequest
}

// LineRequest один участник на одну дату курса
type LineRequest struct {
	ClientID         int64
	CourseID         int64
	CourseDateID     int64
	CourseSubgroupID *int64            // обязательно для коллективного курса
	MonitorID        *int64            // инструктор приватного занятия
	GroupID          int64             // группа совместно бронирующих участников приватного занятия
	HourStart        *types.TimeString // по умолчанию время даты курса
	HourEnd          *types.TimeString
	ExtraIDs         []int64
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking   *domain.Booking
	Lines     []*domain.BookingUser
	Breakdown pricing.BookingBreakdown
	Discount  *discount.Result // nil, если промокод не передавался
}
