package cancel_booking

import "github.com/m04kA/SMC-CourseEngine/internal/domain"

// Request модель запроса на отмену
type Request struct {
	BookingID      int64
	BookingUserIDs []int64 // пусто = отменить все строки
	Reason         *string
}

// Response модель ответа
type Response struct {
	BookingID      int64
	Status         domain.BookingStatus
	CancelledLines []*domain.BookingUser
	ActiveLines    int
}
