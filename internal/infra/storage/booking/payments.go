package booking

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourseEngine/pkg/psqlbuilder"
)

// GetPayments получает все платежи бронирования
func (r *Repository) GetPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "amount", "status", "created_at").
		From("payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPayments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPayments - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(&payment.ID, &payment.BookingID, &payment.Amount, &payment.Status, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetPayments - scan row: %v", ErrScanRow, err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetPayments - rows error: %v", ErrScanRow, err)
	}

	return payments, nil
}

// GetVoucherLogs получает использования ваучеров в бронировании
func (r *Repository) GetVoucherLogs(ctx context.Context, bookingID int64) ([]domain.VoucherLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "voucher_id", "booking_id", "amount", "created_at").
		From("vouchers_log").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetVoucherLogs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetVoucherLogs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	logs := make([]domain.VoucherLog, 0)
	for rows.Next() {
		var log domain.VoucherLog
		if err := rows.Scan(&log.ID, &log.VoucherID, &log.BookingID, &log.Amount, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetVoucherLogs - scan row: %v", ErrScanRow, err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetVoucherLogs - rows error: %v", ErrScanRow, err)
	}

	return logs, nil
}
