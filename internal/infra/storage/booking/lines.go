package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourseEngine/pkg/psqlbuilder"
)

var bookingUserColumns = []string{
	"id",
	"booking_id",
	"school_id",
	"client_id",
	"course_id",
	"course_date_id",
	"course_group_id",
	"course_subgroup_id",
	"degree_id",
	"monitor_id",
	"group_id",
	"date",
	"hour_start",
	"hour_end",
	"price",
	"currency",
	"status",
	"created_at",
	"updated_at",
}

// CreateBookingUser создает строку бронирования (участника)
func (r *Repository) CreateBookingUser(ctx context.Context, line *domain.BookingUser) (*domain.BookingUser, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_users").
		Columns(
			"booking_id",
			"school_id",
			"client_id",
			"course_id",
			"course_date_id",
			"course_group_id",
			"course_subgroup_id",
			"degree_id",
			"monitor_id",
			"group_id",
			"date",
			"hour_start",
			"hour_end",
			"price",
			"currency",
			"status",
		).
		Values(
			line.BookingID,
			line.SchoolID,
			line.ClientID,
			line.CourseID,
			line.CourseDateID,
			line.CourseGroupID,
			line.CourseSubgroupID,
			line.DegreeID,
			line.MonitorID,
			line.GroupID,
			line.Date,
			line.HourStart,
			line.HourEnd,
			line.Price,
			line.Currency,
			line.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBookingUser - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&line.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBookingUser - execute insert: %v", ErrExecQuery, err)
	}

	line.CreatedAt = createdAt.Time
	line.UpdatedAt = updatedAt.Time

	return line, nil
}

// UpdateBookingUserPrice сохраняет рассчитанную цену строки
func (r *Repository) UpdateBookingUserPrice(ctx context.Context, id int64, price float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_users").
		Set("price", price).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateBookingUserPrice - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateBookingUserPrice - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateBookingUserPrice - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingUserNotFound
	}

	return nil
}

// CreateBookingUserExtra привязывает дополнительную услугу курса к строке бронирования
func (r *Repository) CreateBookingUserExtra(ctx context.Context, extra *domain.BookingUserExtra) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_user_extras").
		Columns("booking_user_id", "course_extra_id").
		Values(extra.BookingUserID, extra.CourseExtraID).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreateBookingUserExtra - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&extra.ID); err != nil {
		return fmt.Errorf("%w: CreateBookingUserExtra - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetBookingUser получает строку бронирования по ID
func (r *Repository) GetBookingUser(ctx context.Context, id int64) (*domain.BookingUser, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingUserColumns...).
		From("booking_users").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	lines, err := r.scanBookingUsers(rows)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrBookingUserNotFound
	}

	return lines[0], nil
}

// GetBookingUsers получает все строки бронирования (включая отменённые)
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) GetBookingUsers(ctx context.Context, bookingID int64) ([]*domain.BookingUser, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingUserColumns...).
		From("booking_users").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingUsers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingUsers - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookingUsers(rows)
}

// GetExtrasByBookingUsers получает дополнительные услуги строк бронирования с ценами курса
// Результат сгруппирован по ID строки бронирования
func (r *Repository) GetExtrasByBookingUsers(ctx context.Context, bookingUserIDs []int64) (map[int64][]domain.BookingUserExtra, error) {
	result := make(map[int64][]domain.BookingUserExtra)
	if len(bookingUserIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("bue.id", "bue.booking_user_id", "bue.course_extra_id", "ce.name", "ce.price").
		From("booking_user_extras bue").
		Join("course_extras ce ON ce.id = bue.course_extra_id").
		Where(squirrel.Eq{"bue.booking_user_id": bookingUserIDs}).
		OrderBy("bue.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExtrasByBookingUsers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExtrasByBookingUsers - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var extra domain.BookingUserExtra
		if err := rows.Scan(&extra.ID, &extra.BookingUserID, &extra.CourseExtraID, &extra.Name, &extra.Price); err != nil {
			return nil, fmt.Errorf("%w: GetExtrasByBookingUsers - scan row: %v", ErrScanRow, err)
		}
		result[extra.BookingUserID] = append(result[extra.BookingUserID], extra)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExtrasByBookingUsers - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// CountActiveBySubgroupAndDate считает занятые места подгруппы на дату:
// активные строки бронирования, у которых родительское бронирование не отменено
func (r *Repository) CountActiveBySubgroupAndDate(ctx context.Context, subgroupID int64, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("booking_users bu").
		Join("bookings b ON b.id = bu.booking_id").
		Where(squirrel.Eq{
			"bu.course_subgroup_id": subgroupID,
			"bu.date":               date.Format(domain.DateFormat),
			"bu.status":             domain.BookingUserStatusActive,
		}).
		Where(squirrel.NotEq{"b.status": domain.BookingStatusCancelled}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySubgroupAndDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySubgroupAndDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CancelBookingUsers переводит активные строки бронирования в статус "отменено"
// Пустой список ids отменяет все строки бронирования. Возвращает отменённые строки.
func (r *Repository) CancelBookingUsers(ctx context.Context, bookingID int64, ids []int64) ([]*domain.BookingUser, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("booking_users").
		Set("status", domain.BookingUserStatusCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID, "status": domain.BookingUserStatusActive})

	if len(ids) > 0 {
		updateBuilder = updateBuilder.Where(squirrel.Eq{"id": ids})
	}

	query, args, err := updateBuilder.Suffix("RETURNING " + strings.Join(bookingUserColumns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CancelBookingUsers - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CancelBookingUsers - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookingUsers(rows)
}

// scanBookingUsers сканирует результаты запроса в слайс строк бронирования
func (r *Repository) scanBookingUsers(rows *sql.Rows) ([]*domain.BookingUser, error) {
	lines := make([]*domain.BookingUser, 0)

	for rows.Next() {
		var line domain.BookingUser
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&line.ID,
			&line.BookingID,
			&line.SchoolID,
			&line.ClientID,
			&line.CourseID,
			&line.CourseDateID,
			&line.CourseGroupID,
			&line.CourseSubgroupID,
			&line.DegreeID,
			&line.MonitorID,
			&line.GroupID,
			&line.Date,
			&line.HourStart,
			&line.HourEnd,
			&line.Price,
			&line.Currency,
			&line.Status,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookingUsers - scan row: %v", ErrScanRow, err)
		}

		line.CreatedAt = createdAt.Time
		line.UpdatedAt = updatedAt.Time

		lines = append(lines, &line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookingUsers - rows error: %v", ErrScanRow, err)
	}

	return lines, nil
}
