package course

import "errors"

var (
	// ErrCourseNotFound возвращается, когда курс не найден
	ErrCourseNotFound = errors.New("course.repository: course not found")

	// ErrSubgroupNotFound возвращается, когда подгруппа курса не найдена
	ErrSubgroupNotFound = errors.New("course.repository: subgroup not found")

	// ErrCourseDateNotFound возвращается, когда дата курса не найдена
	ErrCourseDateNotFound = errors.New("course.repository: course date not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("course.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("course.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("course.repository: failed to scan row")

	// ErrInvalidPriceRange возвращается, когда тарифная сетка курса не разбирается
	ErrInvalidPriceRange = errors.New("course.repository: invalid price range")

	// ErrInvalidDiscounts возвращается, когда скидки курса не разбираются
	ErrInvalidDiscounts = errors.New("course.repository: invalid discounts")
)
