package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/booking"
)

// UseCase use case для отмены бронирования или его части
type UseCase struct {
	bookingRepo BookingRepository
	cache       AvailabilityCache
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, cache AvailabilityCache, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		cache:       cache,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute отменяет выбранные строки (или все) и обновляет статус бронирования:
// все строки отменены - "отменено", часть строк активна - "частично отменено".
// Освободившиеся места сбрасываются в кэше доступности после коммита.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, lines=%v", req.BookingID, req.BookingUserIDs)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	var result *Response

	// Строка бронирования блокируется в GetByID, поэтому READ COMMITTED достаточно:
	// параллельная отмена дождётся коммита и увидит уже обновлённый статус
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.IsCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d is already cancelled", booking.ID)
			return ErrCannotCancel
		}

		lines, err := uc.bookingRepo.GetBookingUsers(txCtx, booking.ID)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to get lines of booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to get booking users: %v", ErrInternal, err)
		}

		if err := checkOwnership(lines, req.BookingUserIDs); err != nil {
			uc.logger.Warn("CancelBooking: %v", err)
			return err
		}

		cancelled, err := uc.bookingRepo.CancelBookingUsers(txCtx, booking.ID, req.BookingUserIDs)
		if err != nil {
			uc.logger.Error("CancelBooking: failed to cancel lines of booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to cancel booking users: %v", ErrInternal, err)
		}

		active := countRemaining(lines, cancelled)
		status := domain.BookingStatusPartiallyCancelled
		if active == 0 {
			status = domain.BookingStatusCancelled
		}

		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, status, req.Reason); err != nil {
			uc.logger.Error("CancelBooking: failed to update status of booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking status: %v", ErrInternal, err)
		}

		result = &Response{
			BookingID:      booking.ID,
			Status:         status,
			CancelledLines: cancelled,
			ActiveLines:    active,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	for subgroupID, dates := range freedSlots(result.CancelledLines) {
		for _, date := range dates {
			uc.cache.InvalidateCache(subgroupID, date)
		}
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled %d lines, %d still active, status=%d",
		result.BookingID, len(result.CancelledLines), result.ActiveLines, result.Status)

	return result, nil
}

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	for _, id := range req.BookingUserIDs {
		if id <= 0 {
			return fmt.Errorf("%w: booking user ids must be positive", ErrInvalidInput)
		}
	}
	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}

// checkOwnership все запрошенные строки должны принадлежать бронированию
func checkOwnership(lines []*domain.BookingUser, ids []int64) error {
	own := make(map[int64]bool, len(lines))
	for _, l := range lines {
		own[l.ID] = true
	}
	for _, id := range ids {
		if !own[id] {
			return fmt.Errorf("%w: id=%d", ErrBookingUserNotFound, id)
		}
	}
	return nil
}

func countRemaining(lines, cancelled []*domain.BookingUser) int {
	gone := make(map[int64]bool, len(cancelled))
	for _, l := range cancelled {
		gone[l.ID] = true
	}
	active := 0
	for _, l := range lines {
		if l.IsActive() && !gone[l.ID] {
			active++
		}
	}
	return active
}

// freedSlots подгруппы и даты, в которых освободились места
func freedSlots(cancelled []*domain.BookingUser) map[int64][]time.Time {
	slots := make(map[int64][]time.Time)
	seen := make(map[string]bool)
	for _, l := range cancelled {
		if l.CourseSubgroupID == nil {
			continue
		}
		date := domain.DateOnly(l.Date)
		key := fmt.Sprintf("%d:%s", *l.CourseSubgroupID, date.Format(domain.DateFormat))
		if seen[key] {
			continue
		}
		seen[key] = true
		slots[*l.CourseSubgroupID] = append(slots[*l.CourseSubgroupID], date)
	}
	return slots
}
