package capacity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	courseRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/course"
)

// Service загружает снимок настроек и вычисляет вместимость подгруппы
// Используется и при чтении доступности, и при проверке в момент создания бронирования
type Service struct {
	courseRepo CourseRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса вместимости
func NewService(courseRepo CourseRepository, logger Logger) *Service {
	return &Service{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// ResolveMaxParticipants вычисляет эффективную вместимость подгруппы на дату
func (s *Service) ResolveMaxParticipants(ctx context.Context, subgroupID int64, date time.Time) (Resolution, error) {
	snapshot, err := s.LoadSnapshot(ctx, subgroupID)
	if err != nil {
		return Resolution{}, err
	}

	resolution := Resolve(*snapshot, date)
	s.logger.Debug("ResolveMaxParticipants: subgroup=%d date=%s capacity=%s source=%s",
		subgroupID, date.Format(domain.DateFormat), resolution.Capacity, resolution.Source)

	return resolution, nil
}

// LoadSnapshot загружает всё, что нужно для Resolve
// Переопределения интервалов загружаются только для курсов в режиме independent
func (s *Service) LoadSnapshot(ctx context.Context, subgroupID int64) (*Snapshot, error) {
	subgroup, err := s.courseRepo.GetSubgroup(ctx, subgroupID)
	if err != nil {
		if errors.Is(err, courseRepo.ErrSubgroupNotFound) {
			s.logger.Warn("LoadSnapshot: subgroup id=%d not found", subgroupID)
			return nil, ErrSubgroupNotFound
		}
		s.logger.Error("LoadSnapshot: failed to get subgroup id=%d: %v", subgroupID, err)
		return nil, fmt.Errorf("%w: LoadSnapshot - get subgroup: %w", ErrInternal, err)
	}

	course, err := s.courseRepo.GetCourse(ctx, subgroup.CourseID)
	if err != nil {
		if errors.Is(err, courseRepo.ErrCourseNotFound) {
			s.logger.Warn("LoadSnapshot: course id=%d of subgroup id=%d not found", subgroup.CourseID, subgroupID)
			return nil, ErrCourseNotFound
		}
		s.logger.Error("LoadSnapshot: failed to get course id=%d: %v", subgroup.CourseID, err)
		return nil, fmt.Errorf("%w: LoadSnapshot - get course: %w", ErrInternal, err)
	}

	snapshot := &Snapshot{Course: course, Subgroup: subgroup}
	if !course.UsesIndependentIntervals() {
		return snapshot, nil
	}

	snapshot.Intervals, err = s.courseRepo.GetIntervals(ctx, course.ID)
	if err != nil {
		s.logger.Error("LoadSnapshot: failed to get intervals of course id=%d: %v", course.ID, err)
		return nil, fmt.Errorf("%w: LoadSnapshot - get intervals: %w", ErrInternal, err)
	}
	if len(snapshot.Intervals) == 0 {
		return snapshot, nil
	}

	snapshot.IntervalGroups, err = s.courseRepo.GetIntervalGroupsByGroup(ctx, subgroup.CourseGroupID)
	if err != nil {
		s.logger.Error("LoadSnapshot: failed to get interval groups of group id=%d: %v", subgroup.CourseGroupID, err)
		return nil, fmt.Errorf("%w: LoadSnapshot - get interval groups: %w", ErrInternal, err)
	}

	snapshot.IntervalSubgroups, err = s.courseRepo.GetIntervalSubgroupsBySubgroup(ctx, subgroup.ID)
	if err != nil {
		s.logger.Error("LoadSnapshot: failed to get interval subgroups of subgroup id=%d: %v", subgroup.ID, err)
		return nil, fmt.Errorf("%w: LoadSnapshot - get interval subgroups: %w", ErrInternal, err)
	}

	return snapshot, nil
}
