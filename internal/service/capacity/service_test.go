package capacity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	courseRepo "github.com/m04kA/SMC-CourseEngine/internal/infra/storage/course"
	"github.com/m04kA/SMC-CourseEngine/pkg/ptr"
)

type fakeCourseRepo struct {
	snapshot        Snapshot
	intervalsErr    error
	intervalsCalled bool
}

func (f *fakeCourseRepo) GetCourse(_ context.Context, id int64) (*domain.Course, error) {
	if f.snapshot.Course == nil || f.snapshot.Course.ID != id {
		return nil, courseRepo.ErrCourseNotFound
	}
	return f.snapshot.Course, nil
}

func (f *fakeCourseRepo) GetSubgroup(_ context.Context, id int64) (*domain.CourseSubgroup, error) {
	if f.snapshot.Subgroup == nil || f.snapshot.Subgroup.ID != id {
		return nil, courseRepo.ErrSubgroupNotFound
	}
	return f.snapshot.Subgroup, nil
}

func (f *fakeCourseRepo) GetIntervals(context.Context, int64) ([]domain.CourseInterval, error) {
	f.intervalsCalled = true
	return f.snapshot.Intervals, f.intervalsErr
}

func (f *fakeCourseRepo) GetIntervalGroupsByGroup(context.Context, int64) ([]domain.CourseIntervalGroup, error) {
	return f.snapshot.IntervalGroups, nil
}

func (f *fakeCourseRepo) GetIntervalSubgroupsBySubgroup(context.Context, int64) ([]domain.CourseIntervalSubgroup, error) {
	return f.snapshot.IntervalSubgroups, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// levelLogger считает сообщения по уровням
type levelLogger struct {
	counts map[string]int
}

func (l *levelLogger) Debug(string, ...interface{}) { l.counts["debug"]++ }
func (l *levelLogger) Info(string, ...interface{})  { l.counts["info"]++ }
func (l *levelLogger) Warn(string, ...interface{})  { l.counts["warn"]++ }
func (l *levelLogger) Error(string, ...interface{}) { l.counts["error"]++ }

func TestService_ResolveMaxParticipants(t *testing.T) {
	repo := &fakeCourseRepo{
		snapshot: withSubgroupOverride(
			withGroupOverride(snapshot(domain.IntervalsModeIndependent, ptr.Ptr(8)), ptr.Ptr(4), true),
			ptr.Ptr(2), true),
	}
	svc := NewService(repo, nopLogger{})

	res, err := svc.ResolveMaxParticipants(context.Background(), 100, inSeason)
	require.NoError(t, err)
	assert.Equal(t, domain.LimitedCapacity(2), res.Capacity)
	assert.Equal(t, SourceIntervalSubgroup, res.Source)
}

func TestService_UnifiedModeSkipsIntervalQueries(t *testing.T) {
	repo := &fakeCourseRepo{snapshot: snapshot(domain.IntervalsModeUnified, ptr.Ptr(8))}
	svc := NewService(repo, nopLogger{})

	res, err := svc.ResolveMaxParticipants(context.Background(), 100, inSeason)
	require.NoError(t, err)
	assert.Equal(t, domain.LimitedCapacity(8), res.Capacity)
	assert.False(t, repo.intervalsCalled)
}

func TestService_Errors(t *testing.T) {
	repo := &fakeCourseRepo{snapshot: snapshot(domain.IntervalsModeIndependent, ptr.Ptr(8))}
	svc := NewService(repo, nopLogger{})

	_, err := svc.ResolveMaxParticipants(context.Background(), 999, inSeason)
	assert.ErrorIs(t, err, ErrSubgroupNotFound)

	dbErr := errors.New("connection reset")
	repo.intervalsErr = dbErr
	_, err = svc.ResolveMaxParticipants(context.Background(), 100, inSeason)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, dbErr)
}

func TestService_ResolveLogsAtDebug(t *testing.T) {
	repo := &fakeCourseRepo{snapshot: snapshot(domain.IntervalsModeUnified, ptr.Ptr(8))}
	logger := &levelLogger{counts: map[string]int{}}
	svc := NewService(repo, logger)

	for i := 0; i < 3; i++ {
		_, err := svc.ResolveMaxParticipants(context.Background(), 100, inSeason)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, logger.counts["debug"])
	assert.Zero(t, logger.counts["info"])
}
