package get_available_slots

import "time"

// Request модель запроса свободных мест
type Request struct {
	SubgroupID int64     // ID подгруппы курса
	Date       time.Time // Дата (без времени)
	Count      int       // Сколько мест нужно (0 = 1)
}

// Response модель ответа со свободными местами
type Response struct {
	SubgroupID     int64
	Date           time.Time
	AvailableSlots int  // 999 для неограниченной вместимости
	Unlimited      bool // Вместимость не ограничена
	Requested      int
	IsPast         bool // Дата уже прошла, бронировать нельзя
	IsAvailable    bool // Хватает мест на Requested участников и дата не прошла
}
