package domain

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-CourseEngine/pkg/types"
)

// CourseType тип курса
type CourseType int

const (
	CourseTypeCollective CourseType = 1
	CourseTypePrivate    CourseType = 2
)

// String возвращает название типа курса
func (t CourseType) String() string {
	switch t {
	case CourseTypeCollective:
		return "collective"
	case CourseTypePrivate:
		return "private"
	default:
		return "unknown"
	}
}

// IntervalsConfigMode режим применения настроек интервалов курса
type IntervalsConfigMode string

const (
	// IntervalsModeUnified все интервалы используют базовые настройки групп и подгрупп
	IntervalsModeUnified IntervalsConfigMode = "unified"
	// IntervalsModeIndependent каждый интервал может переопределять вместимость групп и подгрупп
	IntervalsModeIndependent IntervalsConfigMode = "independent"
)

// Course курс школы
type Course struct {
	ID                  int64
	SchoolID            int64
	SportID             int64
	Name                string
	CourseType          CourseType
	IsFlexible          bool
	Price               float64
	Currency            string
	PriceRange          []PriceTier          // Тарифная сетка гибкого приватного курса
	Discounts           []CollectiveDiscount // Скидки гибкого коллективного курса по числу дней
	IntervalsConfigMode IntervalsConfigMode
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsCollective returns true for collective courses
func (c *Course) IsCollective() bool {
	return c.CourseType == CourseTypeCollective
}

// IsPrivate returns true for private courses
func (c *Course) IsPrivate() bool {
	return c.CourseType == CourseTypePrivate
}

// UsesIndependentIntervals returns true if interval overrides must be consulted
func (c *Course) UsesIndependentIntervals() bool {
	return c.IntervalsConfigMode == IntervalsModeIndependent
}

// FindPriceTier ищет тариф с точно совпадающей длительностью
func (c *Course) FindPriceTier(duration time.Duration) (PriceTier, bool) {
	for _, tier := range c.PriceRange {
		if tier.Duration == duration {
			return tier, true
		}
	}
	return PriceTier{}, false
}

// BestCollectiveDiscount возвращает скидку с наибольшим порогом, не превышающим dates
func (c *Course) BestCollectiveDiscount(dates int) (CollectiveDiscount, bool) {
	tiers := make([]CollectiveDiscount, len(c.Discounts))
	copy(tiers, c.Discounts)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Dates > tiers[j].Dates })

	for _, tier := range tiers {
		if tier.Dates <= dates {
			return tier, true
		}
	}
	return CollectiveDiscount{}, false
}

// PriceTier строка тарифной сетки: длительность занятия и цена по размеру группы
type PriceTier struct {
	Duration time.Duration
	Prices   map[int]float64 // размер группы -> цена
}

// PriceFor возвращает цену для размера группы
func (t PriceTier) PriceFor(groupSize int) (float64, bool) {
	price, ok := t.Prices[groupSize]
	return price, ok
}

// CollectiveDiscount скидка в процентах, начиная с указанного количества дней
type CollectiveDiscount struct {
	Dates      int
	Percentage float64
}

// CourseInterval период (сезон) курса
type CourseInterval struct {
	ID        int64
	CourseID  int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// Contains проверяет, что дата попадает в интервал (границы включительно, время суток не учитывается)
func (i *CourseInterval) Contains(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(dateOnly(i.StartDate)) && !d.After(dateOnly(i.EndDate))
}

// CourseDate календарная дата и время проведения курса
type CourseDate struct {
	ID        int64
	CourseID  int64
	Date      time.Time
	HourStart types.TimeString
	HourEnd   types.TimeString
}

// CourseGroup группа уровня (степени) внутри курса
type CourseGroup struct {
	ID              int64
	CourseID        int64
	DegreeID        int64
	MaxParticipants *int
}

// CourseSubgroup атомарная бронируемая единица: группа уровня в конкретную дату курса
type CourseSubgroup struct {
	ID              int64
	CourseID        int64
	CourseGroupID   int64
	CourseDateID    int64
	DegreeID        int64
	MaxParticipants *int // NULL = без ограничения
}

// CourseIntervalGroup переопределение вместимости группы в пределах интервала
type CourseIntervalGroup struct {
	ID               int64
	CourseIntervalID int64
	CourseGroupID    int64
	MaxParticipants  *int
	Active           bool
}

// CourseIntervalSubgroup переопределение вместимости подгруппы в пределах интервала (наивысший приоритет)
type CourseIntervalSubgroup struct {
	ID                    int64
	CourseIntervalGroupID int64
	CourseSubgroupID      int64
	MaxParticipants       *int
	Active                bool
}

// CourseExtra дополнительная услуга курса
type CourseExtra struct {
	ID       int64
	CourseID int64
	Name     string
	Price    float64
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOnly обрезает время суток, оставляя календарную дату в UTC
func DateOnly(t time.Time) time.Time {
	return dateOnly(t)
}
