package capacity

import "errors"

var (
	// ErrSubgroupNotFound возвращается, когда подгруппа не найдена
	ErrSubgroupNotFound = errors.New("capacity: subgroup not found")

	// ErrCourseNotFound возвращается, когда курс подгруппы не найден
	ErrCourseNotFound = errors.New("capacity: course not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("capacity: internal error")
)
