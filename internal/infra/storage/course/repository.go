package course

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourseEngine/pkg/psqlbuilder"
)

// Repository репозиторий курсов и настроек вместимости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория курсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCourse получает курс по ID вместе с разобранной тарифной сеткой и скидками
func (r *Repository) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"school_id",
		"sport_id",
		"name",
		"course_type",
		"is_flexible",
		"price",
		"currency",
		"price_range",
		"discounts",
		"intervals_config_mode",
		"created_at",
		"updated_at",
	).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCourse - build select query: %v", ErrBuildQuery, err)
	}

	var course domain.Course
	var priceRange, discounts []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&course.ID,
		&course.SchoolID,
		&course.SportID,
		&course.Name,
		&course.CourseType,
		&course.IsFlexible,
		&course.Price,
		&course.Currency,
		&priceRange,
		&discounts,
		&course.IntervalsConfigMode,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCourse - scan course: %v", ErrScanRow, err)
	}

	course.PriceRange, err = parsePriceRange(priceRange)
	if err != nil {
		return nil, fmt.Errorf("GetCourse - course %d: %w", id, err)
	}
	course.Discounts, err = parseDiscounts(discounts)
	if err != nil {
		return nil, fmt.Errorf("GetCourse - course %d: %w", id, err)
	}

	course.CreatedAt = createdAt.Time
	course.UpdatedAt = updatedAt.Time

	return &course, nil
}

// GetSubgroup получает подгруппу по ID
func (r *Repository) GetSubgroup(ctx context.Context, id int64) (*domain.CourseSubgroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"course_id",
		"course_group_id",
		"course_date_id",
		"degree_id",
		"max_participants",
	).
		From("course_subgroups").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSubgroup - build select query: %v", ErrBuildQuery, err)
	}

	var subgroup domain.CourseSubgroup
	var maxParticipants sql.NullInt64

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&subgroup.ID,
		&subgroup.CourseID,
		&subgroup.CourseGroupID,
		&subgroup.CourseDateID,
		&subgroup.DegreeID,
		&maxParticipants,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSubgroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSubgroup - scan subgroup: %v", ErrScanRow, err)
	}

	subgroup.MaxParticipants = nullableInt(maxParticipants)

	return &subgroup, nil
}

// GetCourseDate получает дату курса по ID
func (r *Repository) GetCourseDate(ctx context.Context, id int64) (*domain.CourseDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "course_id", "date", "hour_start", "hour_end").
		From("course_dates").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCourseDate - build select query: %v", ErrBuildQuery, err)
	}

	var courseDate domain.CourseDate
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&courseDate.ID,
		&courseDate.CourseID,
		&courseDate.Date,
		&courseDate.HourStart,
		&courseDate.HourEnd,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCourseDateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCourseDate - scan course date: %v", ErrScanRow, err)
	}

	return &courseDate, nil
}

// GetIntervals получает интервалы (сезоны) курса, отсортированные по дате начала
func (r *Repository) GetIntervals(ctx context.Context, courseID int64) ([]domain.CourseInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "course_id", "name", "start_date", "end_date").
		From("course_intervals").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("start_date ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetIntervals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]domain.CourseInterval, 0)
	for rows.Next() {
		var interval domain.CourseInterval
		if err := rows.Scan(&interval.ID, &interval.CourseID, &interval.Name, &interval.StartDate, &interval.EndDate); err != nil {
			return nil, fmt.Errorf("%w: GetIntervals - scan row: %v", ErrScanRow, err)
		}
		intervals = append(intervals, interval)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetIntervals - rows error: %v", ErrScanRow, err)
	}

	return intervals, nil
}

// GetIntervalGroupsByGroup получает переопределения вместимости группы во всех интервалах
func (r *Repository) GetIntervalGroupsByGroup(ctx context.Context, courseGroupID int64) ([]domain.CourseIntervalGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "course_interval_id", "course_group_id", "max_participants", "active").
		From("course_interval_groups").
		Where(squirrel.Eq{"course_group_id": courseGroupID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetIntervalGroupsByGroup - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetIntervalGroupsByGroup - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	groups := make([]domain.CourseIntervalGroup, 0)
	for rows.Next() {
		var group domain.CourseIntervalGroup
		var maxParticipants sql.NullInt64
		if err := rows.Scan(&group.ID, &group.CourseIntervalID, &group.CourseGroupID, &maxParticipants, &group.Active); err != nil {
			return nil, fmt.Errorf("%w: GetIntervalGroupsByGroup - scan row: %v", ErrScanRow, err)
		}
		group.MaxParticipants = nullableInt(maxParticipants)
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetIntervalGroupsByGroup - rows error: %v", ErrScanRow, err)
	}

	return groups, nil
}

// GetIntervalSubgroupsBySubgroup получает переопределения вместимости подгруппы во всех интервалах
func (r *Repository) GetIntervalSubgroupsBySubgroup(ctx context.Context, subgroupID int64) ([]domain.CourseIntervalSubgroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "course_interval_group_id", "course_subgroup_id", "max_participants", "active").
		From("course_interval_subgroups").
		Where(squirrel.Eq{"course_subgroup_id": subgroupID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetIntervalSubgroupsBySubgroup - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetIntervalSubgroupsBySubgroup - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	subgroups := make([]domain.CourseIntervalSubgroup, 0)
	for rows.Next() {
		var subgroup domain.CourseIntervalSubgroup
		var maxParticipants sql.NullInt64
		if err := rows.Scan(&subgroup.ID, &subgroup.CourseIntervalGroupID, &subgroup.CourseSubgroupID, &maxParticipants, &subgroup.Active); err != nil {
			return nil, fmt.Errorf("%w: GetIntervalSubgroupsBySubgroup - scan row: %v", ErrScanRow, err)
		}
		subgroup.MaxParticipants = nullableInt(maxParticipants)
		subgroups = append(subgroups, subgroup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetIntervalSubgroupsBySubgroup - rows error: %v", ErrScanRow, err)
	}

	return subgroups, nil
}

// GetExtras получает дополнительные услуги курса по списку ID
func (r *Repository) GetExtras(ctx context.Context, courseID int64, ids []int64) ([]domain.CourseExtra, error) {
	if len(ids) == 0 {
		return []domain.CourseExtra{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "course_id", "name", "price").
		From("course_extras").
		Where(squirrel.Eq{"course_id": courseID, "id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExtras - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExtras - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	extras := make([]domain.CourseExtra, 0, len(ids))
	for rows.Next() {
		var extra domain.CourseExtra
		if err := rows.Scan(&extra.ID, &extra.CourseID, &extra.Name, &extra.Price); err != nil {
			return nil, fmt.Errorf("%w: GetExtras - scan row: %v", ErrScanRow, err)
		}
		extras = append(extras, extra)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExtras - rows error: %v", ErrScanRow, err)
	}

	return extras, nil
}

// LockSubgroups блокирует строки подгрупп до конца транзакции (SELECT ... FOR UPDATE)
// Строки блокируются в порядке возрастания ID, чтобы параллельные транзакции не попадали в deadlock.
// Вне транзакции блокировка не имеет смысла, поэтому метод ничего не делает.
func (r *Repository) LockSubgroups(ctx context.Context, ids []int64) error {
	ids = uniqueSorted(ids)
	if len(ids) == 0 || !dbmetrics.IsInTransaction(ctx) {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("course_subgroups").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		Suffix("FOR UPDATE").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: LockSubgroups - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: LockSubgroups - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("%w: LockSubgroups - scan row: %v", ErrScanRow, err)
		}
		locked++
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: LockSubgroups - rows error: %v", ErrScanRow, err)
	}

	if locked != len(ids) {
		return fmt.Errorf("%w: LockSubgroups - locked %d of %d", ErrSubgroupNotFound, locked, len(ids))
	}

	return nil
}

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
