package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	courseRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/course"
	"github.com/m04kA/SMC-CourseEngine/internal/service/capacity"
	"github.com/m04kA/SMC-CourseEngine/internal/service/discount"
	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
	"github.com/m04kA/SMC-CourseEngine/pkg/ptr"
	"github.com/m04kA/SMC-CourseEngine/pkg/txmanager"
)

// maxTxAttempts сколько раз выполняется транзакция при конфликтах сериализации и deadlock
const maxTxAttempts = 3

// UseCase use case для создания бронирования
type UseCase struct {
	courseRepo  CourseRepository
	bookingRepo BookingRepository
	resolver    CapacityResolver
	counter     OccupancyCounter
	calculator  PriceCalculator
	rates       InsuranceRateProvider
	discounts   DiscountService
	cache       AvailabilityCache
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil
func NewUseCase(
	courseRepo CourseRepository,
	bookingRepo BookingRepository,
	resolver CapacityResolver,
	counter OccupancyCounter,
	calculator PriceCalculator,
	rates InsuranceRateProvider,
	discounts DiscountService,
	cache AvailabilityCache,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		courseRepo:  courseRepo,
		bookingRepo: bookingRepo,
		resolver:    resolver,
		counter:     counter,
		calculator:  calculator,
		rates:       rates,
		discounts:   discounts,
		cache:       cache,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// plannedLine строка запроса вместе с загруженными данными курса
type plannedLine struct {
	req      LineRequest
	course   *domain.Course
	date     *domain.CourseDate
	subgroup *domain.CourseSubgroup
	extras   []domain.CourseExtra
}

// slotDemand сколько мест запрошено в подгруппе на дату
type slotDemand struct {
	subgroup  *domain.CourseSubgroup
	date      time.Time
	requested int
}

// Execute выполняет use case создания бронирования.
// Вместимость проверяется повторно внутри транзакции:
// строки подгрупп блокируются (FOR UPDATE) по возрастанию ID, занятость пересчитывается,
// и только после этого вставляются строки бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: school=%d, client=%d, lines=%d", req.SchoolID, req.ClientMainID, len(req.Lines))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	var (
		result  *Response
		demands []slotDemand
		err     error
	)

	// 2. Выполняем операции с БД в транзакции READ COMMITTED: после FOR UPDATE
	// занятость читается новым запросом и видит строки, закоммиченные конкурентом.
	// При конфликте (40001/40P01) транзакция повторяется целиком.
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
			// 2.1. Загружаем курсы, даты и подгруппы
			planned, err := uc.planLines(txCtx, req)
			if err != nil {
				return err
			}

			// 2.2. Блокируем подгруппы и пересчитываем занятость
			demands = collectDemands(planned)
			if err := uc.lockSubgroups(txCtx, demands); err != nil {
				return err
			}
			if err := uc.checkCapacity(txCtx, demands); err != nil {
				return err
			}

			// 2.3. Создаем бронирование, строки и доп. услуги
			booking, lines, extras, err := uc.insert(txCtx, req, planned)
			if err != nil {
				return err
			}

			// 2.4. Считаем цены и применяем промокод
			result, err = uc.price(txCtx, req, planned, booking, lines, extras)
			return err
		})

		if err == nil || !txmanager.IsRetryable(err) {
			break
		}
		uc.logger.Warn("CreateBooking: transaction conflict (attempt %d/%d): %v", attempt, maxTxAttempts, err)
	}

	if err != nil {
		if txmanager.IsRetryable(err) {
			uc.logger.Error("CreateBooking: giving up after %d conflicting attempts", maxTxAttempts)
			return nil, fmt.Errorf("%w: %w", ErrConcurrentUpdate, err)
		}
		return nil, err
	}

	// 3. Сбрасываем кэш доступности затронутых подгрупп
	for _, d := range demands {
		uc.cache.InvalidateCache(d.subgroup.ID, d.date)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, lines=%d, total=%.2f %s",
		result.Booking.ID, len(result.Lines), result.Booking.PriceTotal, result.Booking.Currency)

	return result, nil
}

// planLines загружает данные курса для каждой строки и проверяет их согласованность
func (uc *UseCase) planLines(ctx context.Context, req *Request) ([]plannedLine, error) {
	courses := make(map[int64]*domain.Course)
	dates := make(map[int64]*domain.CourseDate)
	subgroups := make(map[int64]*domain.CourseSubgroup)

	planned := make([]plannedLine, 0, len(req.Lines))
	for i, line := range req.Lines {
		course, ok := courses[line.CourseID]
		if !ok {
			c, err := uc.courseRepo.GetCourse(ctx, line.CourseID)
			if err != nil {
				return nil, uc.courseError("get course", line.CourseID, err)
			}
			if c.SchoolID != req.SchoolID {
				uc.logger.Warn("CreateBooking: course id=%d belongs to school=%d, not %d", c.ID, c.SchoolID, req.SchoolID)
				return nil, fmt.Errorf("%w: course %d belongs to another school", ErrInvalidInput, c.ID)
			}
			courses[c.ID] = c
			course = c
		}

		date, ok := dates[line.CourseDateID]
		if !ok {
			d, err := uc.courseRepo.GetCourseDate(ctx, line.CourseDateID)
			if err != nil {
				return nil, uc.courseError("get course date", line.CourseDateID, err)
			}
			dates[d.ID] = d
			date = d
		}
		if date.CourseID != course.ID {
			uc.logger.Warn("CreateBooking: course date id=%d does not belong to course id=%d", date.ID, course.ID)
			return nil, ErrCourseDateNotFound
		}

		p := plannedLine{req: line, course: course, date: date}

		if course.IsCollective() {
			if line.CourseSubgroupID == nil {
				return nil, fmt.Errorf("%w: line %d: collective course requires courseSubgroupID", ErrInvalidInput, i)
			}
			subgroup, ok := subgroups[*line.CourseSubgroupID]
			if !ok {
				s, err := uc.courseRepo.GetSubgroup(ctx, *line.CourseSubgroupID)
				if err != nil {
					return nil, uc.courseError("get subgroup", *line.CourseSubgroupID, err)
				}
				subgroups[s.ID] = s
				subgroup = s
			}
			if subgroup.CourseID != course.ID || subgroup.CourseDateID != date.ID {
				uc.logger.Warn("CreateBooking: subgroup id=%d does not belong to course=%d date=%d",
					subgroup.ID, course.ID, date.ID)
				return nil, ErrSubgroupNotFound
			}
			p.subgroup = subgroup
		} else if line.CourseSubgroupID != nil {
			return nil, fmt.Errorf("%w: line %d: private course does not use subgroups", ErrInvalidInput, i)
		}

		if len(line.ExtraIDs) > 0 {
			extras, err := uc.loadExtras(ctx, course.ID, line.ExtraIDs)
			if err != nil {
				return nil, err
			}
			p.extras = extras
		}

		planned = append(planned, p)
	}

	return planned, nil
}

// loadExtras загружает выбранные доп. услуги курса; каждая должна существовать
func (uc *UseCase) loadExtras(ctx context.Context, courseID int64, ids []int64) ([]domain.CourseExtra, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	extras, err := uc.courseRepo.GetExtras(ctx, courseID, unique)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get extras of course id=%d: %v", courseID, err)
		return nil, fmt.Errorf("%w: failed to get extras: %v", ErrInternal, err)
	}

	if len(extras) != len(unique) {
		uc.logger.Warn("CreateBooking: course id=%d has %d of %d requested extras", courseID, len(extras), len(unique))
		return nil, ErrExtraNotFound
	}

	return extras, nil
}

// collectDemands группирует строки коллективных курсов по (подгруппа, дата) в порядке возрастания ID
func collectDemands(planned []plannedLine) []slotDemand {
	index := make(map[string]int)
	demands := make([]slotDemand, 0)

	for _, p := range planned {
		if p.subgroup == nil {
			continue
		}
		date := domain.DateOnly(p.date.Date)
		key := fmt.Sprintf("%d:%s", p.subgroup.ID, date.Format(domain.DateFormat))
		if i, ok := index[key]; ok {
			demands[i].requested++
			continue
		}
		index[key] = len(demands)
		demands = append(demands, slotDemand{subgroup: p.subgroup, date: date, requested: 1})
	}

	sort.Slice(demands, func(i, j int) bool {
		if demands[i].subgroup.ID != demands[j].subgroup.ID {
			return demands[i].subgroup.ID < demands[j].subgroup.ID
		}
		return demands[i].date.Before(demands[j].date)
	})

	return demands
}

func (uc *UseCase) lockSubgroups(ctx context.Context, demands []slotDemand) error {
	if len(demands) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(demands))
	for _, d := range demands {
		ids = append(ids, d.subgroup.ID)
	}

	if err := uc.courseRepo.LockSubgroups(ctx, ids); err != nil {
		if errors.Is(err, courseRepo.ErrSubgroupNotFound) {
			uc.logger.Warn("CreateBooking: subgroups %v disappeared before lock", ids)
			return ErrSubgroupNotFound
		}
		uc.logger.Error("CreateBooking: failed to lock subgroups %v: %v", ids, err)
		return fmt.Errorf("%w: failed to lock subgroups: %w", ErrInternal, err)
	}
	return nil
}

// checkCapacity повторная проверка вместимости под блокировкой
func (uc *UseCase) checkCapacity(ctx context.Context, demands []slotDemand) error {
	for _, d := range demands {
		resolution, err := uc.resolver.ResolveMaxParticipants(ctx, d.subgroup.ID, d.date)
		if err != nil {
			if errors.Is(err, capacity.ErrSubgroupNotFound) || errors.Is(err, capacity.ErrCourseNotFound) {
				return ErrSubgroupNotFound
			}
			uc.logger.Error("CreateBooking: failed to resolve capacity of subgroup=%d: %v", d.subgroup.ID, err)
			return fmt.Errorf("%w: failed to resolve capacity: %w", ErrInternal, err)
		}

		if resolution.Capacity.Unlimited {
			uc.logger.Info("CreateBooking: subgroup=%d date=%s has unlimited capacity",
				d.subgroup.ID, d.date.Format(domain.DateFormat))
			continue
		}

		occupied, err := uc.counter.CountActive(ctx, d.subgroup.ID, d.date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count occupancy of subgroup=%d: %v", d.subgroup.ID, err)
			return fmt.Errorf("%w: failed to count occupancy: %w", ErrInternal, err)
		}

		if !resolution.Capacity.Fits(occupied, d.requested) {
			uc.logger.Warn("CreateBooking: subgroup=%d date=%s is full, %d/%d taken, %d requested",
				d.subgroup.ID, d.date.Format(domain.DateFormat), occupied, resolution.Capacity.Limit, d.requested)
			if uc.metrics != nil {
				uc.metrics.CapacityRejected()
			}
			return &CapacityExceededError{
				SubgroupID: d.subgroup.ID,
				Date:       d.date,
				GroupID:    resolution.GroupID,
				DegreeID:   resolution.DegreeID,
				Max:        resolution.Capacity.Limit,
				Occupied:   occupied,
				Requested:  d.requested,
			}
		}

		uc.logger.Info("CreateBooking: subgroup=%d date=%s available, %d/%d taken, %d requested",
			d.subgroup.ID, d.date.Format(domain.DateFormat), occupied, resolution.Capacity.Limit, d.requested)
	}
	return nil
}

// insert создает бронирование, строки и доп. услуги. Цены строк заполняются позже
func (uc *UseCase) insert(
	ctx context.Context,
	req *Request,
	planned []plannedLine,
) (*domain.Booking, []*domain.BookingUser, map[int64][]domain.BookingUserExtra, error) {
	currency := req.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	booking, err := uc.bookingRepo.Create(ctx, &domain.Booking{
		SchoolID:                 req.SchoolID,
		ClientMainID:             req.ClientMainID,
		Status:                   domain.BookingStatusActive,
		Currency:                 currency,
		HasCancellationInsurance: req.HasCancellationInsurance,
		HasReduction:             req.PriceReduction > 0,
		PriceReduction:           req.PriceReduction,
		Notes:                    req.Notes,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, nil, nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	lines := make([]*domain.BookingUser, 0, len(planned))
	extras := make(map[int64][]domain.BookingUserExtra)

	for _, p := range planned {
		line := &domain.BookingUser{
			BookingID:    booking.ID,
			SchoolID:     req.SchoolID,
			ClientID:     p.req.ClientID,
			CourseID:     p.course.ID,
			CourseDateID: ptr.Ptr(p.date.ID),
			MonitorID:    p.req.MonitorID,
			GroupID:      p.req.GroupID,
			Date:         domain.DateOnly(p.date.Date),
			HourStart:    p.date.HourStart,
			HourEnd:      p.date.HourEnd,
			Currency:     currency,
			Status:       domain.BookingUserStatusActive,
		}
		if p.req.HourStart != nil {
			line.HourStart = *p.req.HourStart
			line.HourEnd = *p.req.HourEnd
		}
		if p.subgroup != nil {
			line.CourseGroupID = ptr.Ptr(p.subgroup.CourseGroupID)
			line.CourseSubgroupID = ptr.Ptr(p.subgroup.ID)
			line.DegreeID = ptr.Ptr(p.subgroup.DegreeID)
		}

		created, err := uc.bookingRepo.CreateBookingUser(ctx, line)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking user for booking id=%d: %v", booking.ID, err)
			return nil, nil, nil, fmt.Errorf("%w: failed to create booking user: %v", ErrInternal, err)
		}
		lines = append(lines, created)

		for _, ce := range p.extras {
			extra := domain.BookingUserExtra{
				BookingUserID: created.ID,
				CourseExtraID: ce.ID,
				Name:          ce.Name,
				Price:         ce.Price,
			}
			if err := uc.bookingRepo.CreateBookingUserExtra(ctx, &extra); err != nil {
				uc.logger.Error("CreateBooking: failed to create extra for booking user id=%d: %v", created.ID, err)
				return nil, nil, nil, fmt.Errorf("%w: failed to create booking user extra: %v", ErrInternal, err)
			}
			extras[created.ID] = append(extras[created.ID], extra)
		}
	}

	return booking, lines, extras, nil
}

// price считает цены строк и итог бронирования, применяет промокод и сохраняет снимок цен
func (uc *UseCase) price(
	ctx context.Context,
	req *Request,
	planned []plannedLine,
	booking *domain.Booking,
	lines []*domain.BookingUser,
	extras map[int64][]domain.BookingUserExtra,
) (*Response, error) {
	rate, err := uc.rates.InsuranceRate(ctx, booking.SchoolID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get insurance rate: %w", ErrInternal, err)
	}

	courses := make(map[int64]*domain.Course)
	for _, p := range planned {
		courses[p.course.ID] = p.course
	}

	input := pricing.BookingInput{
		Booking:       booking,
		Lines:         lines,
		Courses:       courses,
		Extras:        extras,
		InsuranceRate: rate,
	}
	breakdown := uc.calculator.PriceBooking(input)

	var applied *discount.Result
	if req.DiscountCode != nil {
		applied, err = uc.applyDiscount(ctx, *req.DiscountCode, req, planned, breakdown)
		if err != nil {
			return nil, err
		}
		booking.DiscountCodeID = ptr.Ptr(applied.DiscountCodeID)
		booking.DiscountCodeValue = applied.Amount
		breakdown = uc.calculator.PriceBooking(input)
	}

	byID := make(map[int64]*domain.BookingUser, len(lines))
	for _, line := range lines {
		byID[line.ID] = line
	}
	for i := range breakdown.Lines {
		for id, amount := range breakdown.Lines[i].LineAmounts() {
			if err := uc.bookingRepo.UpdateBookingUserPrice(ctx, id, amount); err != nil {
				uc.logger.Error("CreateBooking: failed to save price of booking user id=%d: %v", id, err)
				return nil, fmt.Errorf("%w: failed to update booking user price: %v", ErrInternal, err)
			}
			byID[id].Price = amount
		}
	}

	booking.PriceTotal = breakdown.TotalFinal
	booking.PriceCancellationInsurance = breakdown.CancellationInsurancePrice
	if err := uc.bookingRepo.UpdateTotals(ctx, booking); err != nil {
		uc.logger.Error("CreateBooking: failed to save totals of booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update booking totals: %v", ErrInternal, err)
	}

	if applied != nil {
		if err := uc.discounts.Redeem(ctx, applied, booking.ID, booking.ClientMainID); err != nil {
			return nil, fmt.Errorf("%w: failed to redeem discount code: %w", ErrInternal, err)
		}
	}

	if breakdown.ConfigurationGaps > 0 {
		uc.logger.Warn("CreateBooking: booking id=%d has %d lines without configured price",
			booking.ID, breakdown.ConfigurationGaps)
	}

	return &Response{
		Booking:   booking,
		Lines:     lines,
		Breakdown: breakdown,
		Discount:  applied,
	}, nil
}

// applyDiscount проверяет промокод на сумму после ручной скидки; отклонённый код отменяет бронирование
func (uc *UseCase) applyDiscount(
	ctx context.Context,
	code string,
	req *Request,
	planned []plannedLine,
	breakdown pricing.BookingBreakdown,
) (*discount.Result, error) {
	amount := breakdown.Subtotal - breakdown.PriceReduction
	if amount < 0 {
		amount = 0
	}

	courseIDs, sportIDs, degreeIDs := cartScope(planned)
	result, err := uc.discounts.Validate(ctx, discount.Request{
		Code:         code,
		SchoolID:     req.SchoolID,
		ClientID:     req.ClientMainID,
		CourseIDs:    courseIDs,
		SportIDs:     sportIDs,
		DegreeIDs:    degreeIDs,
		Amount:       amount,
		HasReduction: breakdown.PriceReduction > 0,
	})
	if err != nil {
		if errors.Is(err, discount.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: failed to validate discount code: %w", ErrInternal, err)
	}

	if !result.Valid {
		uc.logger.Warn("CreateBooking: discount code %q rejected: %s", code, result.Reason)
		return nil, &InvalidDiscountCodeError{Code: code, Reason: result.Reason}
	}

	return result, nil
}

// cartScope курсы, виды спорта и уровни корзины без повторов
func cartScope(planned []plannedLine) (courseIDs, sportIDs, degreeIDs []int64) {
	seenCourse := make(map[int64]bool)
	seenSport := make(map[int64]bool)
	seenDegree := make(map[int64]bool)

	for _, p := range planned {
		if !seenCourse[p.course.ID] {
			seenCourse[p.course.ID] = true
			courseIDs = append(courseIDs, p.course.ID)
		}
		if !seenSport[p.course.SportID] {
			seenSport[p.course.SportID] = true
			sportIDs = append(sportIDs, p.course.SportID)
		}
		if p.subgroup != nil && !seenDegree[p.subgroup.DegreeID] {
			seenDegree[p.subgroup.DegreeID] = true
			degreeIDs = append(degreeIDs, p.subgroup.DegreeID)
		}
	}
	return courseIDs, sportIDs, degreeIDs
}

func (uc *UseCase) courseError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, courseRepo.ErrCourseNotFound):
		uc.logger.Warn("CreateBooking: course id=%d not found", id)
		return ErrCourseNotFound
	case errors.Is(err, courseRepo.ErrCourseDateNotFound):
		uc.logger.Warn("CreateBooking: course date id=%d not found", id)
		return ErrCourseDateNotFound
	case errors.Is(err, courseRepo.ErrSubgroupNotFound):
		uc.logger.Warn("CreateBooking: subgroup id=%d not found", id)
		return ErrSubgroupNotFound
	}
	uc.logger.Error("CreateBooking: failed to %s id=%d: %v", op, id, err)
	return fmt.Errorf("%w: failed to %s: %v", ErrInternal, op, err)
}
