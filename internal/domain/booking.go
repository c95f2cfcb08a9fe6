package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourseEngine/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus int

const (
	BookingStatusActive             BookingStatus = 1
	BookingStatusCancelled          BookingStatus = 2
	BookingStatusPartiallyCancelled BookingStatus = 3
)

// BookingUserStatus статус строки бронирования (участника)
type BookingUserStatus int

const (
	// BookingUserStatusActive участник занимает место и оплачивается
	BookingUserStatusActive BookingUserStatus = 1
	// BookingUserStatusCancelled участник отменён: не занимает место и не оплачивается
	BookingUserStatusCancelled BookingUserStatus = 2
)

// Booking represents a purchase transaction
type Booking struct {
	ID           int64
	SchoolID     int64
	ClientMainID int64
	Status       BookingStatus
	Currency     string

	// Сохранённые итоги (снимок на момент покупки)
	PriceTotal                 float64
	HasCancellationInsurance   bool
	PriceCancellationInsurance float64
	HasReduction               bool
	PriceReduction             float64
	DiscountCodeID             *int64
	DiscountCodeValue          float64
	PaidTotal                  float64
	Paid                       bool

	Notes              *string
	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the whole booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// BookingUser одна строка бронирования: участник на конкретную дату курса
type BookingUser struct {
	ID               int64
	BookingID        int64
	SchoolID         int64
	ClientID         int64
	CourseID         int64
	CourseDateID     *int64
	CourseGroupID    *int64 // только для коллективных курсов
	CourseSubgroupID *int64 // только для коллективных курсов
	DegreeID         *int64
	MonitorID        *int64 // только для приватных курсов
	GroupID          int64  // группа совместно бронирующих участников приватного занятия
	Date             time.Time
	HourStart        types.TimeString
	HourEnd          types.TimeString
	Price            float64
	Currency         string
	Status           BookingUserStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the line occupies a place and is billed
func (u *BookingUser) IsActive() bool {
	return u.Status == BookingUserStatusActive
}

// Duration возвращает длительность занятия (hour_end - hour_start)
func (u *BookingUser) Duration() (time.Duration, error) {
	d, err := u.HourEnd.Sub(u.HourStart)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: hour_end %s is not after hour_start %s", types.ErrInvalidTimeString, u.HourEnd, u.HourStart)
	}
	return d, nil
}

// SharesPrivateSlotWith проверяет, что две строки приватного курса относятся к одному занятию:
// тот же курс, дата, время, инструктор, группа, бронирование и школа
func (u *BookingUser) SharesPrivateSlotWith(other *BookingUser) bool {
	return u.CourseID == other.CourseID &&
		DateOnly(u.Date).Equal(DateOnly(other.Date)) &&
		u.HourStart == other.HourStart &&
		u.HourEnd == other.HourEnd &&
		equalIDs(u.MonitorID, other.MonitorID) &&
		u.GroupID == other.GroupID &&
		u.BookingID == other.BookingID &&
		u.SchoolID == other.SchoolID
}

// BookingUserExtra выбранная дополнительная услуга участника
type BookingUserExtra struct {
	ID            int64
	BookingUserID int64
	CourseExtraID int64
	Name          string
	Price         float64
}

// PaymentStatus статус платежа
type PaymentStatus string

const (
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusRefund        PaymentStatus = "refund"
	PaymentStatusPartialRefund PaymentStatus = "partial_refund"
	PaymentStatusNoRefund      PaymentStatus = "no_refund"
)

// Payment платёж по бронированию
type Payment struct {
	ID        int64
	BookingID int64
	Amount    float64
	Status    PaymentStatus
	CreatedAt time.Time
}

// IsPaid returns true if the payment was received
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

// VoucherLog использование ваучера в бронировании (способ оплаты, а не скидка)
type VoucherLog struct {
	ID        int64
	VoucherID int64
	BookingID int64
	Amount    float64
	CreatedAt time.Time
}

func equalIDs(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
