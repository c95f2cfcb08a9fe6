package pricing

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("pricing: booking not found")

	// ErrBookingUserNotFound возвращается, когда строка бронирования не найдена
	ErrBookingUserNotFound = errors.New("pricing: booking user not found")

	// ErrCourseNotFound возвращается, когда курс строки не найден
	ErrCourseNotFound = errors.New("pricing: course not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("pricing: internal error")
)
