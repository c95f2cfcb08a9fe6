package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SubgroupID <= 0 {
		return fmt.Errorf("%w: subgroupID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Count < 0 || req.Count > domain.MaxRequestedParticipants {
		return fmt.Errorf("%w: count must be between 0 and %d", ErrInvalidInput, domain.MaxRequestedParticipants)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	return domain.DateOnly(date).Before(domain.DateOnly(now))
}
