package get_available_slots

import "errors"

var (
	// ErrSubgroupNotFound возвращается, когда подгруппа или её курс не найдены
	ErrSubgroupNotFound = errors.New("get_available_slots: subgroup not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
