package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/internal/service/discount"
)

var (
	// ErrCourseNotFound возвращается, когда курс не найден
	ErrCourseNotFound = errors.New("create_booking: course not found")

	// ErrCourseDateNotFound возвращается, когда дата курса не найдена или относится к другому курсу
	ErrCourseDateNotFound = errors.New("create_booking: course date not found")

	// ErrSubgroupNotFound возвращается, когда подгруппа не найдена или не относится к дате курса
	ErrSubgroupNotFound = errors.New("create_booking: subgroup not found")

	// ErrExtraNotFound возвращается, когда доп. услуга не найдена у курса
	ErrExtraNotFound = errors.New("create_booking: course extra not found")

	// ErrCapacityExceeded возвращается, когда мест в подгруппе не хватает
	ErrCapacityExceeded = errors.New("create_booking: capacity exceeded")

	// ErrInvalidDiscountCode возвращается, когда промокод нельзя применить к бронированию
	ErrInvalidDiscountCode = errors.New("create_booking: invalid discount code")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrConcurrentUpdate возвращается, когда транзакция не прошла из-за конкурентных изменений за все попытки
	ErrConcurrentUpdate = errors.New("create_booking: concurrent update, retry later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// CapacityExceededError подробности отказа: какая подгруппа переполнена и насколько
type CapacityExceededError struct {
	SubgroupID int64
	Date       time.Time
	GroupID    int64
	DegreeID   int64
	Max        int
	Occupied   int
	Requested  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: subgroup=%d date=%s max=%d occupied=%d requested=%d",
		ErrCapacityExceeded, e.SubgroupID, e.Date.Format(domain.DateFormat), e.Max, e.Occupied, e.Requested)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrCapacityExceeded)
func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// InvalidDiscountCodeError промокод отклонён с указанной причиной
type InvalidDiscountCodeError struct {
	Code   string
	Reason discount.Reason
}

func (e *InvalidDiscountCodeError) Error() string {
	return fmt.Sprintf("%s: code=%q reason=%s", ErrInvalidDiscountCode, e.Code, e.Reason)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrInvalidDiscountCode)
func (e *InvalidDiscountCodeError) Is(target error) bool {
	return target == ErrInvalidDiscountCode
}
