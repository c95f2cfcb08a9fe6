package discount

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	discountRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/discount"
)

// Service проверка и погашение промокодов
type Service struct {
	repo         DiscountRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса промокодов
func NewService(repo DiscountRepository, logger Logger) *Service {
	return &Service{
		repo:         repo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Validate проверяет промокод для корзины и считает сумму скидки.
// Внутри транзакции строка промокода блокируется (FOR UPDATE) до коммита.
func (s *Service) Validate(ctx context.Context, req Request) (*Result, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" || len(code) > domain.MaxDiscountCodeLength {
		return nil, fmt.Errorf("%w: code must be 1-%d characters", ErrInvalidInput, domain.MaxDiscountCodeLength)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}

	dc, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, discountRepo.ErrDiscountCodeNotFound) {
			s.logger.Info("ValidateDiscountCode: code=%q not found", code)
			return &Result{Code: code, Reason: ReasonNotFound}, nil
		}
		s.logger.Error("ValidateDiscountCode: failed to get code=%q: %v", code, err)
		return nil, fmt.Errorf("%w: ValidateDiscountCode - get code: %w", ErrInternal, err)
	}

	usages := 0
	if dc.MaxUsesPerClient != nil {
		usages, err = s.repo.CountClientUsages(ctx, dc.ID, req.ClientID)
		if err != nil {
			s.logger.Error("ValidateDiscountCode: failed to count usages of code=%d by client=%d: %v", dc.ID, req.ClientID, err)
			return nil, fmt.Errorf("%w: ValidateDiscountCode - count usages: %w", ErrInternal, err)
		}
	}

	result := Evaluate(dc, req, usages, s.timeProvider.Now())
	if result.Valid {
		s.logger.Info("ValidateDiscountCode: code=%d accepted for client=%d, amount=%.2f of %.2f",
			dc.ID, req.ClientID, result.Amount, req.Amount)
	} else {
		s.logger.Info("ValidateDiscountCode: code=%d rejected for client=%d: %s", dc.ID, req.ClientID, result.Reason)
	}

	return result, nil
}

// Redeem фиксирует использование промокода. Вызывается в той же транзакции, что и Validate
func (s *Service) Redeem(ctx context.Context, result *Result, bookingID, clientID int64) error {
	if result == nil || !result.Valid {
		return fmt.Errorf("%w: only a valid discount code can be redeemed", ErrInvalidInput)
	}

	if err := s.repo.RegisterUsage(ctx, result.DiscountCodeID, bookingID, clientID, result.Amount); err != nil {
		s.logger.Error("RedeemDiscountCode: failed to register usage of code=%d for booking=%d: %v",
			result.DiscountCodeID, bookingID, err)
		return fmt.Errorf("%w: RedeemDiscountCode - register usage: %w", ErrInternal, err)
	}

	s.logger.Info("RedeemDiscountCode: code=%d used by booking=%d, amount=%.2f", result.DiscountCodeID, bookingID, result.Amount)
	return nil
}

// Evaluate проверяет промокод без обращений к БД.
// clientUsages - сколько раз клиент уже использовал промокод.
func Evaluate(dc *domain.DiscountCode, req Request, clientUsages int, now time.Time) *Result {
	result := &Result{DiscountCodeID: dc.ID, Code: dc.Code}

	reject := func(reason Reason) *Result {
		result.Reason = reason
		return result
	}

	switch {
	case !dc.Active:
		return reject(ReasonInactive)
	case dc.ValidFrom != nil && now.Before(*dc.ValidFrom):
		return reject(ReasonNotStarted)
	case !dc.IsWithinWindow(now):
		return reject(ReasonExpired)
	case dc.IsExhausted():
		return reject(ReasonExhausted)
	case dc.MaxUsesPerClient != nil && clientUsages >= *dc.MaxUsesPerClient:
		return reject(ReasonClientLimit)
	case !dc.AppliesToSchool(req.SchoolID):
		return reject(ReasonWrongSchool)
	case !allowedAll(dc.CourseIDs, req.CourseIDs):
		return reject(ReasonCourseNotAllowed)
	case !allowedAll(dc.SportIDs, req.SportIDs):
		return reject(ReasonSportNotAllowed)
	case !allowedAll(dc.ClientIDs, []int64{req.ClientID}):
		return reject(ReasonClientNotAllowed)
	case !allowedAll(dc.DegreeIDs, req.DegreeIDs):
		return reject(ReasonDegreeNotAllowed)
	case dc.MinPurchaseAmount != nil && req.Amount < *dc.MinPurchaseAmount:
		return reject(ReasonMinPurchase)
	case req.HasReduction && !dc.Stackable:
		return reject(ReasonNotStackable)
	}

	amount := discountAmount(dc, req.Amount)
	if amount <= 0 {
		return reject(ReasonNothingToDiscount)
	}

	result.Valid = true
	result.Amount = amount
	return result
}

// discountAmount фиксированная скидка не больше суммы корзины,
// процентная не больше max_discount_amount
func discountAmount(dc *domain.DiscountCode, cartAmount float64) float64 {
	var amount float64
	switch dc.DiscountType {
	case domain.DiscountTypePercentage:
		amount = cartAmount * dc.DiscountValue / 100
		if dc.MaxDiscountAmount != nil && amount > *dc.MaxDiscountAmount {
			amount = *dc.MaxDiscountAmount
		}
	default:
		amount = dc.DiscountValue
	}

	if amount > cartAmount {
		amount = cartAmount
	}
	return math.Round(amount*100) / 100
}

// allowedAll пустой список разрешает всё, иначе каждое значение должно быть в списке
func allowedAll(allowList, values []int64) bool {
	if len(allowList) == 0 {
		return true
	}
	if len(values) == 0 {
		return false
	}
	allowed := make(map[int64]struct{}, len(allowList))
	for _, id := range allowList {
		allowed[id] = struct{}{}
	}
	for _, v := range values {
		if _, ok := allowed[v]; !ok {
			return false
		}
	}
	return true
}
