package domain

import "time"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// UnlimitedSlots значение, которым сервис сообщает о неограниченной вместимости
// в целочисленных ответах (исторический формат, на который опираются клиенты)
const UnlimitedSlots = 999

// Default configuration values
const (
	DefaultAvailabilityTTL      = 60 * time.Second
	DefaultInsurancePercent     = 10.0
	DefaultCurrency             = "EUR"
	DefaultCachePurgeSchedule   = "@every 1m"
	MaxCartItems                = 200
	MaxRequestedParticipants    = 100
	MaxCancellationReasonLength = 500
	MaxDiscountCodeLength       = 64
)

// ZeroDecimalCurrencies валюты без дробной части (для них допуск сверки равен 1)
var ZeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
	"CLP": true,
	"ISK": true,
	"VND": true,
	"XOF": true,
	"XAF": true,
}

// ReconciliationEpsilon возвращает допустимую погрешность сверки для валюты
func ReconciliationEpsilon(currency string) float64 {
	if ZeroDecimalCurrencies[currency] {
		return 1
	}
	return 0.01
}
