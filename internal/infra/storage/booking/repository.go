package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourseEngine/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"school_id",
	"client_main_id",
	"status",
	"currency",
	"price_total",
	"has_cancellation_insurance",
	"price_cancellation_insurance",
	"has_reduction",
	"price_reduction",
	"discount_code_id",
	"discount_code_value",
	"paid_total",
	"paid",
	"notes",
	"cancellation_reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований, строк бронирования и платежей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"school_id",
			"client_main_id",
			"status",
			"currency",
			"price_total",
			"has_cancellation_insurance",
			"price_cancellation_insurance",
			"has_reduction",
			"price_reduction",
			"discount_code_id",
			"discount_code_value",
			"paid_total",
			"paid",
			"notes",
		).
		Values(
			booking.SchoolID,
			booking.ClientMainID,
			booking.Status,
			booking.Currency,
			booking.PriceTotal,
			booking.HasCancellationInsurance,
			booking.PriceCancellationInsurance,
			booking.HasReduction,
			booking.PriceReduction,
			booking.DiscountCodeID,
			booking.DiscountCodeValue,
			booking.PaidTotal,
			booking.Paid,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.SchoolID,
		&booking.ClientMainID,
		&booking.Status,
		&booking.Currency,
		&booking.PriceTotal,
		&booking.HasCancellationInsurance,
		&booking.PriceCancellationInsurance,
		&booking.HasReduction,
		&booking.PriceReduction,
		&booking.DiscountCodeID,
		&booking.DiscountCodeValue,
		&booking.PaidTotal,
		&booking.Paid,
		&booking.Notes,
		&booking.CancellationReason,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// UpdateTotals сохраняет рассчитанные итоги бронирования (снимок цены)
func (r *Repository) UpdateTotals(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("price_total", booking.PriceTotal).
		Set("price_cancellation_insurance", booking.PriceCancellationInsurance).
		Set("discount_code_id", booking.DiscountCodeID).
		Set("discount_code_value", booking.DiscountCodeValue).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateTotals - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateTotals - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateTotals - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel обновляет статус бронирования после отмены строк и сохраняет причину отмены
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}
