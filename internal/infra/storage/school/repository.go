package school

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
	"github.com/m04kA/SMC-CourseEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourseEngine/pkg/psqlbuilder"
)

// Repository репозиторий настроек школ
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек школ
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSettings получает настройки школы (ставка страховки отмены, валюта)
func (r *Repository) GetSettings(ctx context.Context, schoolID int64) (*domain.SchoolSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("school_id", "cancellation_insurance_percent", "currency").
		From("school_settings").
		Where(squirrel.Eq{"school_id": schoolID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.SchoolSettings
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.SchoolID,
		&settings.CancellationInsurancePercent,
		&settings.Currency,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - scan settings: %v", ErrScanRow, err)
	}

	return &settings, nil
}
