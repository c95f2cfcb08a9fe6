package domain

import "time"

// DiscountType тип скидки промокода
type DiscountType string

const (
	DiscountTypeFixed      DiscountType = "fixed_amount"
	DiscountTypePercentage DiscountType = "percentage"
)

// DiscountCode промокод школы
type DiscountCode struct {
	ID                int64
	SchoolID          *int64 // NULL = действует во всех школах
	Code              string
	DiscountType      DiscountType
	DiscountValue     float64
	MaxDiscountAmount *float64 // ограничение процентной скидки
	MinPurchaseAmount *float64
	TotalUses         *int // NULL = без ограничения
	UsesCount         int
	MaxUsesPerClient  *int
	Active            bool
	Stackable         bool
	ValidFrom         *time.Time
	ValidTo           *time.Time

	// Списки допустимых значений (пустой список = без ограничения)
	CourseIDs []int64
	SportIDs  []int64
	ClientIDs []int64
	DegreeIDs []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExhausted returns true if the global usage limit has been reached
func (d *DiscountCode) IsExhausted() bool {
	return d.TotalUses != nil && d.UsesCount >= *d.TotalUses
}

// IsWithinWindow проверяет, что момент now попадает в период действия
func (d *DiscountCode) IsWithinWindow(now time.Time) bool {
	if d.ValidFrom != nil && now.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidTo != nil && now.After(*d.ValidTo) {
		return false
	}
	return true
}

// AppliesToSchool проверяет, что промокод действует в школе
func (d *DiscountCode) AppliesToSchool(schoolID int64) bool {
	return d.SchoolID == nil || *d.SchoolID == schoolID
}
