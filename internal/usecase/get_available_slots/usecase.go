package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/internal/service/capacity"
)

// UseCase use case для получения свободных мест подгруппы на дату
type UseCase struct {
	availability AvailabilityService
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(availability AvailabilityService, logger Logger) *UseCase {
	return &UseCase{
		availability: availability,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных мест
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: subgroup=%d, date=%s, count=%d",
		req.SubgroupID, req.Date.Format(domain.DateFormat), req.Count)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	requested := req.Count
	if requested == 0 {
		requested = 1
	}
	date := domain.DateOnly(req.Date)

	// 2. Свободные места (кэш или пересчёт)
	slots, err := uc.availability.Slots(ctx, req.SubgroupID, date)
	if err != nil {
		if errors.Is(err, capacity.ErrSubgroupNotFound) || errors.Is(err, capacity.ErrCourseNotFound) {
			uc.logger.Warn("GetAvailableSlots: subgroup id=%d not found", req.SubgroupID)
			return nil, ErrSubgroupNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get slots of subgroup id=%d: %v", req.SubgroupID, err)
		return nil, fmt.Errorf("%w: failed to get slots: %w", ErrInternal, err)
	}

	// 3. Прошедшая дата остаётся в ответе, но бронировать её нельзя
	past := isDateInPast(date, uc.timeProvider.Now())

	resp := &Response{
		SubgroupID:     req.SubgroupID,
		Date:           date,
		AvailableSlots: slots.Count(),
		Unlimited:      slots.Unlimited,
		Requested:      requested,
		IsPast:         past,
		IsAvailable:    !past && slots.Allows(requested),
	}

	uc.logger.Info("GetAvailableSlots: subgroup=%d date=%s available=%d requested=%d is_available=%t",
		resp.SubgroupID, date.Format(domain.DateFormat), resp.AvailableSlots, requested, resp.IsAvailable)

	return resp, nil
}
