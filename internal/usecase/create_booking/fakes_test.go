package create_booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	courseRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/course"
	discountRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/discount"
	"github.com/m04kA/SMC-CourseEngine/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// store общее состояние фейковой БД
type store struct {
	nextID   int64
	bookings []*domain.Booking
	lines    []*domain.BookingUser
	extras   []domain.BookingUserExtra
	usages   int
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) activeLines(subgroupID int64, date time.Time) int {
	count := 0
	for _, l := range s.lines {
		if l.CourseSubgroupID != nil && *l.CourseSubgroupID == subgroupID &&
			l.Date.Equal(domain.DateOnly(date)) && l.IsActive() {
			count++
		}
	}
	return count
}

// fakeTxManager сериализует транзакции мьютексом и откатывает вставки при ошибке.
// commitErrs по очереди подменяют результат коммита; beforeConflict вызывается
// перед возвратом такой ошибки (например, чтобы "закоммитить" конкурента).
type fakeTxManager struct {
	mu             sync.Mutex
	store          *store
	calls          int
	commitErrs     []error
	beforeConflict func()
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	bookings, lines, extras, usages := len(m.store.bookings), len(m.store.lines), len(m.store.extras), m.store.usages
	rollback := func() {
		m.store.bookings = m.store.bookings[:bookings]
		m.store.lines = m.store.lines[:lines]
		m.store.extras = m.store.extras[:extras]
		m.store.usages = usages
	}

	if err := fn(ctx); err != nil {
		rollback()
		return err
	}

	if len(m.commitErrs) > 0 {
		err := m.commitErrs[0]
		m.commitErrs = m.commitErrs[1:]
		if err != nil {
			rollback()
			if m.beforeConflict != nil {
				m.beforeConflict()
			}
			return fmt.Errorf("%w: %w", txmanager.ErrCommitTx, err)
		}
	}
	return nil
}

type fakeCourseRepo struct {
	courses   map[int64]*domain.Course
	dates     map[int64]*domain.CourseDate
	subgroups map[int64]*domain.CourseSubgroup
	extras    map[int64]domain.CourseExtra
	locked    [][]int64
}

func (f *fakeCourseRepo) GetCourse(_ context.Context, id int64) (*domain.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, courseRepo.ErrCourseNotFound
	}
	return c, nil
}

func (f *fakeCourseRepo) GetCourseDate(_ context.Context, id int64) (*domain.CourseDate, error) {
	d, ok := f.dates[id]
	if !ok {
		return nil, courseRepo.ErrCourseDateNotFound
	}
	return d, nil
}

func (f *fakeCourseRepo) GetSubgroup(_ context.Context, id int64) (*domain.CourseSubgroup, error) {
	s, ok := f.subgroups[id]
	if !ok {
		return nil, courseRepo.ErrSubgroupNotFound
	}
	return s, nil
}

func (f *fakeCourseRepo) GetExtras(_ context.Context, courseID int64, ids []int64) ([]domain.CourseExtra, error) {
	result := make([]domain.CourseExtra, 0, len(ids))
	for _, id := range ids {
		if e, ok := f.extras[id]; ok && e.CourseID == courseID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeCourseRepo) LockSubgroups(_ context.Context, ids []int64) error {
	f.locked = append(f.locked, ids)
	return nil
}

func (f *fakeCourseRepo) GetIntervals(context.Context, int64) ([]domain.CourseInterval, error) {
	return nil, nil
}

func (f *fakeCourseRepo) GetIntervalGroupsByGroup(context.Context, int64) ([]domain.CourseIntervalGroup, error) {
	return nil, nil
}

func (f *fakeCourseRepo) GetIntervalSubgroupsBySubgroup(context.Context, int64) ([]domain.CourseIntervalSubgroup, error) {
	return nil, nil
}

type fakeBookingRepo struct {
	store *store
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	booking.ID = f.store.id()
	f.store.bookings = append(f.store.bookings, booking)
	return booking, nil
}

func (f *fakeBookingRepo) CreateBookingUser(_ context.Context, line *domain.BookingUser) (*domain.BookingUser, error) {
	line.ID = f.store.id()
	f.store.lines = append(f.store.lines, line)
	return line, nil
}

func (f *fakeBookingRepo) CreateBookingUserExtra(_ context.Context, extra *domain.BookingUserExtra) error {
	extra.ID = f.store.id()
	f.store.extras = append(f.store.extras, *extra)
	return nil
}

func (f *fakeBookingRepo) UpdateBookingUserPrice(_ context.Context, id int64, price float64) error {
	for _, l := range f.store.lines {
		if l.ID == id {
			l.Price = price
		}
	}
	return nil
}

func (f *fakeBookingRepo) UpdateTotals(context.Context, *domain.Booking) error {
	return nil
}

func (f *fakeBookingRepo) CountActiveBySubgroupAndDate(_ context.Context, subgroupID int64, date time.Time) (int, error) {
	return f.store.activeLines(subgroupID, date), nil
}

type fakeDiscountRepo struct {
	store *store
	codes map[string]*domain.DiscountCode
}

func (f *fakeDiscountRepo) GetByCode(_ context.Context, code string) (*domain.DiscountCode, error) {
	dc, ok := f.codes[strings.ToUpper(code)]
	if !ok {
		return nil, discountRepo.ErrDiscountCodeNotFound
	}
	return dc, nil
}

func (f *fakeDiscountRepo) CountClientUsages(context.Context, int64, int64) (int, error) {
	return 0, nil
}

func (f *fakeDiscountRepo) RegisterUsage(context.Context, int64, int64, int64, float64) error {
	f.store.usages++
	return nil
}

type fixedRate float64

func (r fixedRate) InsuranceRate(context.Context, int64) (float64, error) {
	return float64(r), nil
}

type invalidation struct {
	subgroupID int64
	date       string
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated []invalidation
}

func (c *fakeCache) InvalidateCache(subgroupID int64, date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, invalidation{subgroupID, date.Format(domain.DateFormat)})
}

type fakeMetrics struct {
	mu       sync.Mutex
	rejected int
}

func (m *fakeMetrics) CapacityRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected++
}
