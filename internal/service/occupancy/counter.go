package occupancy

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// Counter считает занятые места подгруппы. Собственного кэша не имеет
type Counter struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewCounter создает новый счётчик занятости
func NewCounter(bookingRepo BookingRepository, logger Logger) *Counter {
	return &Counter{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// CountActive возвращает количество активных участников подгруппы на дату.
// Внутри транзакции запрос выполняется в ней же, поэтому видит ещё не закоммиченные строки.
func (c *Counter) CountActive(ctx context.Context, subgroupID int64, date time.Time) (int, error) {
	count, err := c.bookingRepo.CountActiveBySubgroupAndDate(ctx, subgroupID, domain.DateOnly(date))
	if err != nil {
		c.logger.Error("CountActive: subgroup=%d date=%s: %v", subgroupID, date.Format(domain.DateFormat), err)
		return 0, fmt.Errorf("%w: CountActive - count bookings: %w", ErrInternal, err)
	}
	return count, nil
}
