package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SchoolID <= 0 {
		return fmt.Errorf("%w: schoolID must be positive", ErrInvalidInput)
	}

	if req.ClientMainID <= 0 {
		return fmt.Errorf("%w: clientMainID must be positive", ErrInvalidInput)
	}

	if len(req.Lines) == 0 {
		return fmt.Errorf("%w: at least one line is required", ErrInvalidInput)
	}

	if len(req.Lines) > domain.MaxCartItems {
		return fmt.Errorf("%w: too many lines, max %d", ErrInvalidInput, domain.MaxCartItems)
	}

	if req.PriceReduction < 0 {
		return fmt.Errorf("%w: priceReduction must not be negative", ErrInvalidInput)
	}

	if req.DiscountCode != nil && (*req.DiscountCode == "" || len(*req.DiscountCode) > domain.MaxDiscountCodeLength) {
		return fmt.Errorf("%w: discountCode must be 1-%d characters", ErrInvalidInput, domain.MaxDiscountCodeLength)
	}

	for i := range req.Lines {
		if err := validateLine(&req.Lines[i]); err != nil {
			return fmt.Errorf("%w (line %d)", err, i)
		}
	}

	return nil
}

func validateLine(line *LineRequest) error {
	if line.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if line.CourseID <= 0 {
		return fmt.Errorf("%w: courseID must be positive", ErrInvalidInput)
	}

	if line.CourseDateID <= 0 {
		return fmt.Errorf("%w: courseDateID must be positive", ErrInvalidInput)
	}

	if line.CourseSubgroupID != nil && *line.CourseSubgroupID <= 0 {
		return fmt.Errorf("%w: courseSubgroupID must be positive", ErrInvalidInput)
	}

	if (line.HourStart == nil) != (line.HourEnd == nil) {
		return fmt.Errorf("%w: hourStart and hourEnd must be set together", ErrInvalidInput)
	}

	if line.HourStart != nil {
		if err := line.HourStart.Validate(); err != nil {
			return fmt.Errorf("%w: invalid hourStart format: %v", ErrInvalidInput, err)
		}
		if err := line.HourEnd.Validate(); err != nil {
			return fmt.Errorf("%w: invalid hourEnd format: %v", ErrInvalidInput, err)
		}
		if !line.HourStart.IsBefore(*line.HourEnd) {
			return fmt.Errorf("%w: hourStart must be before hourEnd", ErrInvalidInput)
		}
	}

	for _, id := range line.ExtraIDs {
		if id <= 0 {
			return fmt.Errorf("%w: extra ids must be positive", ErrInvalidInput)
		}
	}

	return nil
}
