package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/internal/service/capacity"
	"github.com/m04kA/SMC-CourseEngine/internal/service/discount"
	"github.com/m04kA/SMC-CourseEngine/internal/service/occupancy"
	"github.com/m04kA/SMC-CourseEngine/internal/service/pricing"
	"github.com/m04kA/SMC-CourseEngine/pkg/ptr"
	"github.com/m04kA/SMC-CourseEngine/pkg/txmanager"
	"github.com/m04kA/SMC-CourseEngine/pkg/types"
)

var courseDay = time.Date(2027, 1, 20, 0, 0, 0, 0, time.UTC)

type fixture struct {
	uc      *UseCase
	store   *store
	courses *fakeCourseRepo
	cache   *fakeCache
	metrics *fakeMetrics
	tx      *fakeTxManager
}

func newFixture(maxParticipants *int) *fixture {
	st := &store{nextID: 1000}
	courses := &fakeCourseRepo{
		courses: map[int64]*domain.Course{
			1: {ID: 1, SchoolID: 1, SportID: 1, CourseType: domain.CourseTypeCollective, Price: 50,
				IntervalsConfigMode: domain.IntervalsModeUnified},
			2: {ID: 2, SchoolID: 1, SportID: 2, CourseType: domain.CourseTypePrivate, IsFlexible: true,
				PriceRange: []domain.PriceTier{{Duration: time.Hour, Prices: map[int]float64{1: 30, 2: 40}}}},
		},
		dates: map[int64]*domain.CourseDate{
			100: {ID: 100, CourseID: 1, Date: courseDay, HourStart: "10:00", HourEnd: "13:00"},
			200: {ID: 200, CourseID: 2, Date: courseDay, HourStart: "10:00", HourEnd: "11:00"},
		},
		subgroups: map[int64]*domain.CourseSubgroup{
			10: {ID: 10, CourseID: 1, CourseGroupID: 5, CourseDateID: 100, DegreeID: 3, MaxParticipants: maxParticipants},
			11: {ID: 11, CourseID: 1, CourseGroupID: 6, CourseDateID: 100, DegreeID: 4},
		},
		extras: map[int64]domain.CourseExtra{
			500: {ID: 500, CourseID: 1, Name: "Forfait", Price: 20},
		},
	}
	bookings := &fakeBookingRepo{store: st}
	discounts := &fakeDiscountRepo{store: st, codes: map[string]*domain.DiscountCode{
		"WINTER10": {ID: 9, Code: "WINTER10", Active: true, DiscountType: domain.DiscountTypePercentage, DiscountValue: 10},
		"OLD":      {ID: 8, Code: "OLD", Active: false, DiscountType: domain.DiscountTypeFixed, DiscountValue: 10},
	}}

	cache := &fakeCache{}
	metrics := &fakeMetrics{}
	tx := &fakeTxManager{store: st}
	logger := nopLogger{}

	uc := NewUseCase(
		courses,
		bookings,
		capacity.NewService(courses, logger),
		occupancy.NewCounter(bookings, logger),
		pricing.NewCalculator(nil, logger),
		fixedRate(0.10),
		discount.NewService(discounts, logger),
		cache,
		tx,
		metrics,
		logger,
	)

	return &fixture{uc: uc, store: st, courses: courses, cache: cache, metrics: metrics, tx: tx}
}

func collectiveLine(clientID, subgroupID int64) LineRequest {
	return LineRequest{ClientID: clientID, CourseID: 1, CourseDateID: 100, CourseSubgroupID: ptr.Ptr(subgroupID)}
}

func singleLine(clientID int64) *Request {
	return &Request{SchoolID: 1, ClientMainID: clientID, Lines: []LineRequest{collectiveLine(clientID, 10)}}
}

func TestExecute_CapacityEnforcedSequentially(t *testing.T) {
	f := newFixture(ptr.Ptr(2))
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, singleLine(1))
	require.NoError(t, err)
	_, err = f.uc.Execute(ctx, singleLine(2))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, singleLine(3))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	var capErr *CapacityExceededError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, int64(10), capErr.SubgroupID)
	assert.Equal(t, int64(5), capErr.GroupID)
	assert.Equal(t, int64(3), capErr.DegreeID)
	assert.Equal(t, 2, capErr.Max)
	assert.Equal(t, 2, capErr.Occupied)
	assert.Equal(t, 1, capErr.Requested)
	assert.True(t, capErr.Date.Equal(courseDay))

	assert.Equal(t, 2, f.store.activeLines(10, courseDay))
	assert.Len(t, f.store.bookings, 2)
	assert.Equal(t, 1, f.metrics.rejected)
}

func TestExecute_ConcurrentCommitsNeverOverbook(t *testing.T) {
	f := newFixture(ptr.Ptr(2))

	const attempts = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(clientID int64) {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), singleLine(clientID))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 2, ok)
	assert.Equal(t, attempts-2, rejected)
	assert.Equal(t, 2, f.store.activeLines(10, courseDay))
}

// competitorCommits имитирует параллельную транзакцию, успевшую занять место в подгруппе 10
func competitorCommits(f *fixture) func() {
	return func() {
		f.store.lines = append(f.store.lines, &domain.BookingUser{
			ID: f.store.id(), CourseID: 1, CourseSubgroupID: ptr.Ptr(int64(10)),
			Date: domain.DateOnly(courseDay), Status: domain.BookingUserStatusActive,
		})
	}
}

func TestExecute_SerializationFailureRecountsOnRetry(t *testing.T) {
	f := newFixture(ptr.Ptr(1))
	f.tx.commitErrs = []error{&pq.Error{Code: "40001"}}
	f.tx.beforeConflict = competitorCommits(f)

	_, err := f.uc.Execute(context.Background(), singleLine(1))

	require.Error(t, err)
	var capErr *CapacityExceededError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 1, capErr.Max)
	assert.Equal(t, 1, capErr.Occupied)
	assert.NotErrorIs(t, err, ErrInternal)

	assert.Equal(t, 2, f.tx.calls)
	assert.Equal(t, 1, f.store.activeLines(10, courseDay))
	assert.Empty(t, f.store.bookings)
	assert.Empty(t, f.cache.invalidated)
}

func TestExecute_DeadlockRetrySucceeds(t *testing.T) {
	f := newFixture(ptr.Ptr(2))
	f.tx.commitErrs = []error{&pq.Error{Code: "40P01"}}
	f.tx.beforeConflict = competitorCommits(f)

	resp, err := f.uc.Execute(context.Background(), singleLine(1))

	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 2, f.tx.calls)
	assert.Equal(t, 2, f.store.activeLines(10, courseDay))
	assert.Len(t, f.store.bookings, 1)
}

func TestExecute_ConflictRetriesExhausted(t *testing.T) {
	f := newFixture(ptr.Ptr(5))
	for i := 0; i < maxTxAttempts; i++ {
		f.tx.commitErrs = append(f.tx.commitErrs, &pq.Error{Code: "40001"})
	}

	_, err := f.uc.Execute(context.Background(), singleLine(1))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.NotErrorIs(t, err, ErrCapacityExceeded)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Equal(t, maxTxAttempts, f.tx.calls)
	assert.Empty(t, f.store.lines)
	assert.Empty(t, f.cache.invalidated)
}

func TestExecute_CommitFailureNotRetried(t *testing.T) {
	f := newFixture(ptr.Ptr(5))
	f.tx.commitErrs = []error{errors.New("connection reset")}

	_, err := f.uc.Execute(context.Background(), singleLine(1))

	require.Error(t, err)
	assert.ErrorIs(t, err, txmanager.ErrCommitTx)
	assert.NotErrorIs(t, err, ErrConcurrentUpdate)
	assert.Equal(t, 1, f.tx.calls)
	assert.Empty(t, f.store.lines)
}

func TestExecute_RequestedCountAggregatedPerSubgroup(t *testing.T) {
	f := newFixture(ptr.Ptr(2))

	req := &Request{SchoolID: 1, ClientMainID: 1, Lines: []LineRequest{
		collectiveLine(1, 10), collectiveLine(2, 10), collectiveLine(3, 10),
	}}

	_, err := f.uc.Execute(context.Background(), req)

	var capErr *CapacityExceededError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 3, capErr.Requested)
	assert.Equal(t, 0, capErr.Occupied)
	assert.Empty(t, f.store.lines)
	assert.Empty(t, f.cache.invalidated)
}

func TestExecute_UnlimitedSubgroup(t *testing.T) {
	f := newFixture(nil)

	lines := make([]LineRequest, 0, 20)
	for i := int64(1); i <= 20; i++ {
		lines = append(lines, collectiveLine(i, 10))
	}

	resp, err := f.uc.Execute(context.Background(), &Request{SchoolID: 1, ClientMainID: 1, Lines: lines})
	require.NoError(t, err)
	assert.Len(t, resp.Lines, 20)
}

func TestExecute_PricesSnapshotAndInvalidatesCache(t *testing.T) {
	f := newFixture(ptr.Ptr(10))

	req := &Request{
		SchoolID:       1,
		ClientMainID:   1,
		PriceReduction: 30,
		Lines:          []LineRequest{collectiveLine(1, 10), collectiveLine(2, 10), collectiveLine(3, 11)},
	}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 150.0, resp.Breakdown.Subtotal)
	assert.Equal(t, 120.0, resp.Booking.PriceTotal)
	assert.Equal(t, domain.DefaultCurrency, resp.Booking.Currency)
	for _, line := range resp.Lines {
		assert.Equal(t, 50.0, line.Price)
		assert.Equal(t, types.TimeString("10:00"), line.HourStart)
		assert.Equal(t, int64(100), *line.CourseDateID)
	}

	assert.Equal(t, [][]int64{{10, 11}}, f.courses.locked)
	assert.ElementsMatch(t, []invalidation{{10, "2027-01-20"}, {11, "2027-01-20"}}, f.cache.invalidated)
}

func TestExecute_ExtrasAndInsurance(t *testing.T) {
	f := newFixture(ptr.Ptr(10))

	line := collectiveLine(1, 10)
	line.ExtraIDs = []int64{500}
	req := &Request{SchoolID: 1, ClientMainID: 1, HasCancellationInsurance: true, Lines: []LineRequest{line}}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 20.0, resp.Breakdown.ExtrasPrice)
	assert.Equal(t, 7.0, resp.Booking.PriceCancellationInsurance)
	assert.Equal(t, 77.0, resp.Booking.PriceTotal)
	assert.Equal(t, 70.0, resp.Lines[0].Price)
	require.Len(t, f.store.extras, 1)
	assert.Equal(t, "Forfait", f.store.extras[0].Name)
}

func TestExecute_PrivateFlexibleGroup(t *testing.T) {
	f := newFixture(ptr.Ptr(10))

	monitor := ptr.Ptr(int64(77))
	req := &Request{SchoolID: 1, ClientMainID: 1, Lines: []LineRequest{
		{ClientID: 1, CourseID: 2, CourseDateID: 200, MonitorID: monitor, GroupID: 1},
		{ClientID: 2, CourseID: 2, CourseDateID: 200, MonitorID: monitor, GroupID: 1},
	}}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 80.0, resp.Booking.PriceTotal)
	assert.Empty(t, f.courses.locked)
	assert.Empty(t, f.cache.invalidated)
}

func TestExecute_DiscountCode(t *testing.T) {
	f := newFixture(ptr.Ptr(10))

	req := &Request{SchoolID: 1, ClientMainID: 1, DiscountCode: ptr.Ptr("winter10"), Lines: []LineRequest{
		collectiveLine(1, 10), collectiveLine(2, 10), collectiveLine(3, 10),
	}}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resp.Discount)
	assert.Equal(t, 15.0, resp.Discount.Amount)
	assert.Equal(t, int64(9), *resp.Booking.DiscountCodeID)
	assert.Equal(t, 15.0, resp.Booking.DiscountCodeValue)
	assert.Equal(t, 135.0, resp.Booking.PriceTotal)
	assert.Equal(t, 1, f.store.usages)
}

func TestExecute_RejectedDiscountCodeRollsBack(t *testing.T) {
	f := newFixture(ptr.Ptr(10))

	for _, code := range []string{"OLD", "MISSING"} {
		req := singleLine(1)
		req.DiscountCode = ptr.Ptr(code)

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidDiscountCode)

		var codeErr *InvalidDiscountCodeError
		require.True(t, errors.As(err, &codeErr))
		assert.Equal(t, code, codeErr.Code)
	}

	assert.Empty(t, f.store.bookings)
	assert.Empty(t, f.store.lines)
	assert.Equal(t, 0, f.store.usages)
}

func TestExecute_ReferenceErrors(t *testing.T) {
	tests := []struct {
		name string
		line LineRequest
		want error
	}{
		{name: "unknown course", line: LineRequest{ClientID: 1, CourseID: 99, CourseDateID: 100}, want: ErrCourseNotFound},
		{name: "unknown date", line: LineRequest{ClientID: 1, CourseID: 1, CourseDateID: 999, CourseSubgroupID: ptr.Ptr(int64(10))}, want: ErrCourseDateNotFound},
		{name: "date of another course", line: LineRequest{ClientID: 1, CourseID: 1, CourseDateID: 200, CourseSubgroupID: ptr.Ptr(int64(10))}, want: ErrCourseDateNotFound},
		{name: "unknown subgroup", line: collectiveLine(1, 42), want: ErrSubgroupNotFound},
		{name: "collective without subgroup", line: LineRequest{ClientID: 1, CourseID: 1, CourseDateID: 100}, want: ErrInvalidInput},
		{name: "private with subgroup", line: LineRequest{ClientID: 1, CourseID: 2, CourseDateID: 200, CourseSubgroupID: ptr.Ptr(int64(10))}, want: ErrInvalidInput},
		{name: "unknown extra", line: LineRequest{ClientID: 1, CourseID: 1, CourseDateID: 100, CourseSubgroupID: ptr.Ptr(int64(10)), ExtraIDs: []int64{501}}, want: ErrExtraNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(ptr.Ptr(10))

			_, err := f.uc.Execute(context.Background(), &Request{SchoolID: 1, ClientMainID: 1, Lines: []LineRequest{tt.line}})
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.store.lines)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	start, end := types.TimeString("11:00"), types.TimeString("10:00")

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "no school", mutate: func(r *Request) { r.SchoolID = 0 }},
		{name: "no client", mutate: func(r *Request) { r.ClientMainID = 0 }},
		{name: "no lines", mutate: func(r *Request) { r.Lines = nil }},
		{name: "negative reduction", mutate: func(r *Request) { r.PriceReduction = -1 }},
		{name: "empty discount code", mutate: func(r *Request) { r.DiscountCode = ptr.Ptr("") }},
		{name: "line without course", mutate: func(r *Request) { r.Lines[0].CourseID = 0 }},
		{name: "only hour start", mutate: func(r *Request) { r.Lines[0].HourStart = &start }},
		{name: "reversed hours", mutate: func(r *Request) { r.Lines[0].HourStart = &start; r.Lines[0].HourEnd = &end }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := singleLine(1)
			tt.mutate(req)
			assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
		})
	}

	assert.NoError(t, validateRequest(singleLine(1)))
}
