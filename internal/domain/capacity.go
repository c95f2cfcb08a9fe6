package domain

import "strconv"

// Capacity вместимость подгруппы на дату
// Неограниченная вместимость хранится явно, а не числом-заглушкой
type Capacity struct {
	Limit     int
	Unlimited bool
}

// LimitedCapacity создает ограниченную вместимость
func LimitedCapacity(limit int) Capacity {
	return Capacity{Limit: limit}
}

// UnlimitedCapacity создает неограниченную вместимость
func UnlimitedCapacity() Capacity {
	return Capacity{Unlimited: true}
}

// CapacityFromNullable переводит nullable max_participants в Capacity (NULL = без ограничения)
func CapacityFromNullable(maxParticipants *int) Capacity {
	if maxParticipants == nil {
		return UnlimitedCapacity()
	}
	return LimitedCapacity(*maxParticipants)
}

// Remaining возвращает количество свободных мест при заданной занятости (никогда не меньше 0)
func (c Capacity) Remaining(occupied int) AvailableSlots {
	if c.Unlimited {
		return AvailableSlots{Unlimited: true}
	}
	remaining := c.Limit - occupied
	if remaining < 0 {
		remaining = 0
	}
	return AvailableSlots{Remaining: remaining}
}

// Fits проверяет, что после добавления requested участников вместимость не будет превышена
func (c Capacity) Fits(occupied, requested int) bool {
	if c.Unlimited {
		return true
	}
	return occupied+requested <= c.Limit
}

// String возвращает вместимость для логов
func (c Capacity) String() string {
	if c.Unlimited {
		return "unlimited"
	}
	return strconv.Itoa(c.Limit)
}

// AvailableSlots свободные места подгруппы на дату
type AvailableSlots struct {
	Remaining int
	Unlimited bool
}

// Count возвращает количество мест в целочисленном виде (UnlimitedSlots для неограниченной вместимости)
func (s AvailableSlots) Count() int {
	if s.Unlimited {
		return UnlimitedSlots
	}
	return s.Remaining
}

// Allows проверяет, что свободных мест хватает на requested участников
func (s AvailableSlots) Allows(requested int) bool {
	return s.Unlimited || s.Remaining >= requested
}

// IsFull returns true if there are no free places
func (s AvailableSlots) IsFull() bool {
	return !s.Unlimited && s.Remaining <= 0
}
