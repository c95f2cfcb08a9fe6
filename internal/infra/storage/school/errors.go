package school

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда у школы нет настроек
	ErrSettingsNotFound = errors.New("school.repository: settings not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("school.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("school.repository: failed to scan row")
)
