package capacity

import (
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// Source уровень иерархии, который определил вместимость
type Source string

const (
	SourceSubgroup         Source = "subgroup"
	SourceIntervalGroup    Source = "interval_group"
	SourceIntervalSubgroup Source = "interval_subgroup"
)

// Snapshot снимок настроек, из которого вычисляется вместимость подгруппы
type Snapshot struct {
	Course            *domain.Course
	Subgroup          *domain.CourseSubgroup
	Intervals         []domain.CourseInterval
	IntervalGroups    []domain.CourseIntervalGroup    // переопределения группы подгруппы
	IntervalSubgroups []domain.CourseIntervalSubgroup // переопределения самой подгруппы
}

// Resolution результат вычисления вместимости
type Resolution struct {
	SubgroupID int64
	GroupID    int64
	DegreeID   int64
	Capacity   domain.Capacity
	Source     Source
	IntervalID *int64 // интервал, в который попала дата (nil - дата вне интервалов или режим unified)
}

// step один уровень иерархии: может заменить кандидата своим значением
type step func(s *Snapshot, state *resolveState)

type resolveState struct {
	interval      *domain.CourseInterval
	intervalGroup *domain.CourseIntervalGroup
	result        Resolution
}

// chain порядок уровней от низшего приоритета к высшему
var chain = []step{
	subgroupBase,
	intervalGroupOverride,
	intervalSubgroupOverride,
}

// Resolve вычисляет эффективную вместимость подгруппы на дату.
// Приоритет: переопределение подгруппы в интервале (active) >
// переопределение группы в интервале (active, режим independent) > базовое значение подгруппы.
// В режиме unified переопределения интервалов не используются совсем.
func Resolve(s Snapshot, date time.Time) Resolution {
	state := &resolveState{
		result: Resolution{
			SubgroupID: s.Subgroup.ID,
			GroupID:    s.Subgroup.CourseGroupID,
			DegreeID:   s.Subgroup.DegreeID,
		},
	}

	if s.Course != nil && s.Course.UsesIndependentIntervals() {
		state.interval = findInterval(s.Intervals, date)
		if state.interval != nil {
			id := state.interval.ID
			state.result.IntervalID = &id
			state.intervalGroup = findIntervalGroup(s.IntervalGroups, state.interval.ID, s.Subgroup.CourseGroupID)
		}
	}

	for _, apply := range chain {
		apply(&s, state)
	}

	return state.result
}

func subgroupBase(s *Snapshot, state *resolveState) {
	state.result.Capacity = domain.CapacityFromNullable(s.Subgroup.MaxParticipants)
	state.result.Source = SourceSubgroup
}

func intervalGroupOverride(_ *Snapshot, state *resolveState) {
	if state.intervalGroup == nil || !state.intervalGroup.Active {
		return
	}
	state.result.Capacity = domain.CapacityFromNullable(state.intervalGroup.MaxParticipants)
	state.result.Source = SourceIntervalGroup
}

// intervalSubgroupOverride переопределение подгруппы привязано к записи группы в интервале,
// но применяется даже если сама запись группы неактивна
func intervalSubgroupOverride(s *Snapshot, state *resolveState) {
	if state.intervalGroup == nil {
		return
	}
	for i := range s.IntervalSubgroups {
		override := &s.IntervalSubgroups[i]
		if override.CourseIntervalGroupID != state.intervalGroup.ID || override.CourseSubgroupID != s.Subgroup.ID {
			continue
		}
		if override.Active {
			state.result.Capacity = domain.CapacityFromNullable(override.MaxParticipants)
			state.result.Source = SourceIntervalSubgroup
		}
		return
	}
}

func findInterval(intervals []domain.CourseInterval, date time.Time) *domain.CourseInterval {
	for i := range intervals {
		if intervals[i].Contains(date) {
			return &intervals[i]
		}
	}
	return nil
}

func findIntervalGroup(groups []domain.CourseIntervalGroup, intervalID, groupID int64) *domain.CourseIntervalGroup {
	for i := range groups {
		if groups[i].CourseIntervalID == intervalID && groups[i].CourseGroupID == groupID {
			return &groups[i]
		}
	}
	return nil
}
