package capacity

import (
	"context"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// CourseRepository интерфейс репозитория курсов
type CourseRepository interface {
	GetCourse(ctx context.Context, id int64) (*domain.Course, error)
	GetSubgroup(ctx context.Context, id int64) (*domain.CourseSubgroup, error)
	GetIntervals(ctx context.Context, courseID int64) ([]domain.CourseInterval, error)
	GetIntervalGroupsByGroup(ctx context.Context, courseGroupID int64) ([]domain.CourseIntervalGroup, error)
	GetIntervalSubgroupsBySubgroup(ctx context.Context, subgroupID int64) ([]domain.CourseIntervalSubgroup, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
