package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// Service отвечает на вопросы о свободных местах для интерфейса.
// Результат носит рекомендательный характер: окончательная проверка выполняется
// при создании бронирования внутри транзакции, а не здесь.
type Service struct {
	resolver CapacityResolver
	counter  OccupancyCounter
	cache    Cache
	metrics  Metrics
	logger   Logger
}

// NewService создает новый экземпляр сервиса доступности. metrics может быть nil
func NewService(
	resolver CapacityResolver,
	counter OccupancyCounter,
	cache Cache,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		resolver: resolver,
		counter:  counter,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
	}
}

// Slots возвращает свободные места подгруппы на дату: из кэша или вычисляет и кэширует
func (s *Service) Slots(ctx context.Context, subgroupID int64, date time.Time) (domain.AvailableSlots, error) {
	date = domain.DateOnly(date)

	if slots, ok := s.cache.Get(subgroupID, date); ok {
		s.cacheHit()
		return slots, nil
	}
	s.cacheMiss()

	resolution, err := s.resolver.ResolveMaxParticipants(ctx, subgroupID, date)
	if err != nil {
		return domain.AvailableSlots{}, err
	}

	occupied := 0
	if !resolution.Capacity.Unlimited {
		occupied, err = s.counter.CountActive(ctx, subgroupID, date)
		if err != nil {
			return domain.AvailableSlots{}, err
		}
	}

	slots := resolution.Capacity.Remaining(occupied)
	if !resolution.Capacity.Unlimited && occupied > resolution.Capacity.Limit {
		s.logger.Warn("GetAvailableSlots: subgroup=%d date=%s is overbooked: occupied=%d capacity=%s",
			subgroupID, date.Format(domain.DateFormat), occupied, resolution.Capacity)
	}

	// Put после параллельного InvalidateCache может оставить устаревшее значение до истечения TTL
	s.cache.Put(subgroupID, date, slots)

	return slots, nil
}

// GetAvailableSlots возвращает количество свободных мест (UnlimitedSlots для неограниченной вместимости).
// Никогда не возвращает отрицательное число.
func (s *Service) GetAvailableSlots(ctx context.Context, subgroupID int64, date time.Time) (int, error) {
	slots, err := s.Slots(ctx, subgroupID, date)
	if err != nil {
		return 0, err
	}
	return slots.Count(), nil
}

// HasAvailability проверяет, что свободных мест не меньше requested
func (s *Service) HasAvailability(ctx context.Context, subgroupID int64, date time.Time, requested int) (bool, error) {
	slots, err := s.Slots(ctx, subgroupID, date)
	if err != nil {
		return false, err
	}
	return slots.Allows(requested), nil
}

// ValidateCartAvailability проверяет каждую строку корзины независимо, без блокировок
func (s *Service) ValidateCartAvailability(ctx context.Context, items []CartItem) (*CartResult, error) {
	result := &CartResult{
		IsAvailable: true,
		Details:     make([]CartLineResult, 0, len(items)),
	}

	for i, item := range items {
		requested := item.Count
		if requested <= 0 {
			requested = 1
		}

		slots, err := s.Slots(ctx, item.SubgroupID, item.Date)
		if err != nil {
			s.logger.Error("ValidateCartAvailability: line %d subgroup=%d date=%s: %v",
				i, item.SubgroupID, item.Date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("cart line %d: %w", i, err)
		}

		line := CartLineResult{
			SubgroupID: item.SubgroupID,
			Date:       domain.DateOnly(item.Date),
			Requested:  requested,
			Available:  slots.Allows(requested),
			Remaining:  slots.Count(),
			Unlimited:  slots.Unlimited,
		}
		if !line.Available {
			result.IsAvailable = false
		}
		result.Details = append(result.Details, line)
	}

	s.logger.Info("ValidateCartAvailability: %d lines, available=%t", len(items), result.IsAvailable)

	return result, nil
}

// InvalidateCache удаляет запись кэша после изменения бронирований подгруппы на дату
func (s *Service) InvalidateCache(subgroupID int64, date time.Time) {
	s.cache.Invalidate(subgroupID, domain.DateOnly(date))
}

func (s *Service) cacheHit() {
	if s.metrics != nil {
		s.metrics.CacheHit()
	}
}

func (s *Service) cacheMiss() {
	if s.metrics != nil {
		s.metrics.CacheMiss()
	}
}
