package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/booking"
	courseRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/course"
	schoolRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/school"
)

// Options значения по умолчанию для школ без настроек
type Options struct {
	DefaultInsurancePercent float64
}

// Service загружает бронирование и считает цены через Calculator
type Service struct {
	courseRepo  CourseRepository
	bookingRepo BookingRepository
	schoolRepo  SchoolRepository
	calculator  *Calculator
	options     Options
	logger      Logger
}

// NewService создает новый экземпляр сервиса цен
func NewService(
	courseRepo CourseRepository,
	bookingRepo BookingRepository,
	schoolRepo SchoolRepository,
	calculator *Calculator,
	options Options,
	logger Logger,
) *Service {
	return &Service{
		courseRepo:  courseRepo,
		bookingRepo: bookingRepo,
		schoolRepo:  schoolRepo,
		calculator:  calculator,
		options:     options,
		logger:      logger,
	}
}

// Calculator возвращает калькулятор для расчёта по уже загруженным данным
func (s *Service) Calculator() *Calculator {
	return s.calculator
}

// CalculateLinePrice считает цену строки бронирования с учётом соседних строк того же бронирования
func (s *Service) CalculateLinePrice(ctx context.Context, bookingUserID int64) (*LinePrice, error) {
	s.logger.Info("CalculateLinePrice: booking_user=%d", bookingUserID)

	line, err := s.bookingRepo.GetBookingUser(ctx, bookingUserID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingUserNotFound) {
			s.logger.Warn("CalculateLinePrice: booking_user id=%d not found", bookingUserID)
			return nil, ErrBookingUserNotFound
		}
		s.logger.Error("CalculateLinePrice: failed to get booking_user id=%d: %v", bookingUserID, err)
		return nil, fmt.Errorf("%w: CalculateLinePrice - get booking user: %w", ErrInternal, err)
	}

	in, err := s.LoadBooking(ctx, line.BookingID)
	if err != nil {
		return nil, err
	}

	course, ok := in.Courses[line.CourseID]
	if !ok {
		return nil, ErrCourseNotFound
	}

	rate := 0.0
	if in.Booking.HasCancellationInsurance {
		rate = in.InsuranceRate
	}

	price := s.calculator.PriceLine(line, course, in.Lines, in.Extras, rate)
	return &price, nil
}

// LoadBooking загружает бронирование со строками, курсами, доп. услугами и ставкой страховки школы
func (s *Service) LoadBooking(ctx context.Context, bookingID int64) (*BookingInput, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("LoadBooking: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("LoadBooking: failed to get booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: LoadBooking - get booking: %w", ErrInternal, err)
	}

	lines, err := s.bookingRepo.GetBookingUsers(ctx, bookingID)
	if err != nil {
		s.logger.Error("LoadBooking: failed to get lines of booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: LoadBooking - get booking users: %w", ErrInternal, err)
	}

	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ID)
	}

	extras, err := s.bookingRepo.GetExtrasByBookingUsers(ctx, ids)
	if err != nil {
		s.logger.Error("LoadBooking: failed to get extras of booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: LoadBooking - get extras: %w", ErrInternal, err)
	}

	courses, err := s.LoadCourses(ctx, lines)
	if err != nil {
		return nil, err
	}

	rate, err := s.InsuranceRate(ctx, booking.SchoolID)
	if err != nil {
		return nil, err
	}

	return &BookingInput{
		Booking:       booking,
		Lines:         lines,
		Courses:       courses,
		Extras:        extras,
		InsuranceRate: rate,
	}, nil
}

// LoadCourses загружает курсы всех строк (каждый курс один раз)
func (s *Service) LoadCourses(ctx context.Context, lines []*domain.BookingUser) (map[int64]*domain.Course, error) {
	courses := make(map[int64]*domain.Course)
	for _, line := range lines {
		if _, ok := courses[line.CourseID]; ok {
			continue
		}

		course, err := s.courseRepo.GetCourse(ctx, line.CourseID)
		if err != nil {
			if errors.Is(err, courseRepo.ErrCourseNotFound) {
				s.logger.Warn("LoadCourses: course id=%d not found", line.CourseID)
				return nil, ErrCourseNotFound
			}
			s.logger.Error("LoadCourses: failed to get course id=%d: %v", line.CourseID, err)
			return nil, fmt.Errorf("%w: LoadCourses - get course: %w", ErrInternal, err)
		}
		courses[course.ID] = course
	}
	return courses, nil
}

// InsuranceRate возвращает ставку страховки отмены школы в долях
// Если настроек школы нет, используется ставка по умолчанию из конфигурации
func (s *Service) InsuranceRate(ctx context.Context, schoolID int64) (float64, error) {
	settings, err := s.schoolRepo.GetSettings(ctx, schoolID)
	if err != nil {
		if errors.Is(err, schoolRepo.ErrSettingsNotFound) {
			s.logger.Info("InsuranceRate: school=%d has no settings, using default %.2f%%", schoolID, s.options.DefaultInsurancePercent)
			return s.options.DefaultInsurancePercent / 100, nil
		}
		s.logger.Error("InsuranceRate: failed to get settings of school=%d: %v", schoolID, err)
		return 0, fmt.Errorf("%w: InsuranceRate - get settings: %w", ErrInternal, err)
	}
	return settings.InsuranceRate(), nil
}
