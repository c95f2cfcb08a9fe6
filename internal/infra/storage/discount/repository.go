package discount

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourseEngine/pkg/psqlbuilder"
)

// Repository репозиторий промокодов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория промокодов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode получает промокод по коду без учёта регистра
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы счётчик использований не гонялся
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"school_id",
		"code",
		"discount_type",
		"discount_value",
		"max_discount_amount",
		"min_purchase_amount",
		"total_uses",
		"uses_count",
		"max_uses_per_client",
		"active",
		"stackable",
		"valid_from",
		"valid_to",
		"course_ids",
		"sport_ids",
		"client_ids",
		"degree_ids",
		"created_at",
		"updated_at",
	).
		From("discount_codes").
		Where(squirrel.Expr("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))))

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %v", ErrBuildQuery, err)
	}

	var dc domain.DiscountCode
	var totalUses, maxUsesPerClient sql.NullInt64
	var courseIDs, sportIDs, clientIDs, degreeIDs pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&dc.ID,
		&dc.SchoolID,
		&dc.Code,
		&dc.DiscountType,
		&dc.DiscountValue,
		&dc.MaxDiscountAmount,
		&dc.MinPurchaseAmount,
		&totalUses,
		&dc.UsesCount,
		&maxUsesPerClient,
		&dc.Active,
		&dc.Stackable,
		&dc.ValidFrom,
		&dc.ValidTo,
		&courseIDs,
		&sportIDs,
		&clientIDs,
		&degreeIDs,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrDiscountCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - scan discount code: %v", ErrScanRow, err)
	}

	dc.TotalUses = nullableInt(totalUses)
	dc.MaxUsesPerClient = nullableInt(maxUsesPerClient)
	dc.CourseIDs = []int64(courseIDs)
	dc.SportIDs = []int64(sportIDs)
	dc.ClientIDs = []int64(clientIDs)
	dc.DegreeIDs = []int64(degreeIDs)
	dc.CreatedAt = createdAt.Time
	dc.UpdatedAt = updatedAt.Time

	return &dc, nil
}

// CountClientUsages считает, сколько раз клиент уже использовал промокод
func (r *Repository) CountClientUsages(ctx context.Context, discountCodeID, clientID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("discount_code_usages").
		Where(squirrel.Eq{"discount_code_id": discountCodeID, "client_id": clientID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountClientUsages - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountClientUsages - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// RegisterUsage записывает использование промокода и увеличивает общий счётчик
// Должен вызываться в той же транзакции, в которой промокод был получен через GetByCode
func (r *Repository) RegisterUsage(ctx context.Context, discountCodeID, bookingID, clientID int64, amount float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertQuery, insertArgs, err := psqlbuilder.Insert("discount_code_usages").
		Columns("discount_code_id", "booking_id", "client_id", "amount").
		Values(discountCodeID, bookingID, clientID, amount).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RegisterUsage - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: RegisterUsage - execute insert: %v", ErrExecQuery, err)
	}

	updateQuery, updateArgs, err := psqlbuilder.Update("discount_codes").
		Set("uses_count", squirrel.Expr("uses_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": discountCodeID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RegisterUsage - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return fmt.Errorf("%w: RegisterUsage - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RegisterUsage - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrDiscountCodeNotFound
	}

	return nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
